// Package creds answers one question per assistant: is it authenticated?
//
// Each assistant kind has a fixed check order (token file, OAuth cache,
// API-key environment variable, service-account pair, auth file); the first
// satisfied method wins. [Check] is a pure predicate: it reads files and
// environment variables, mutates nothing, and is safe to call repeatedly.
//
// Verdict details and error messages name the variables and files that were
// consulted. Secret values never appear in any output.
package creds
