// Package clock provides a tiny time abstraction.
//
// Business code reads time through Clocker so OTP expiry and token lifetimes
// can be driven by a Fixed clock in tests.
package clock
