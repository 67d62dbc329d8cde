// Package mail defines the contracts for sending email messages.
//
// Use cases work with the Mail interface and Message payload; the SMTP
// implementation in this package speaks STARTTLS on submission ports and
// implicit TLS on port 465.
package mail
