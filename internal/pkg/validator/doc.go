// Package validator provides a small validation abstraction for request and
// domain structs.
//
// Business code depends on the Validator interface; the go-playground
// validator v10 implementation lives in this package together with the
// custom rules ("emailshape", "maxbytes") and their English translations.
package validator
