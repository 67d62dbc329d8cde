// Package otp generates short numeric one-time codes used to prove control
// of an email address.
//
// A code is only ever stored as a hash by callers; its secrecy rests on that
// and on the short expiry window returned with it.
package otp
