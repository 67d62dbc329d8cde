// Package jwt issues and verifies HMAC-signed JSON Web Tokens asserting a
// user identity.
package jwt
