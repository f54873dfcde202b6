// Package auth implements a credential lifecycle service: password
// based registration and login, email ownership verification, and
// password recovery. Flow stages are carried by short-lived signed
// tokens and 4-digit one-time codes; accounts live in a bun-backed
// store and every protected operation sits behind a token gate.
package auth
