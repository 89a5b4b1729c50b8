// Package sanitizer provides input normalization for patient and
// doctor data.
//
// All normalization functions are idempotent - applying them multiple
// times produces the same result. Functions handle invalid input
// gracefully, typically by returning empty strings rather than errors.
//
// Normalization includes:
//   - Phone numbers: Convert to E.164 format (+[country][number])
//   - Names and free text: Collapse whitespace, trim leading/trailing spaces
//   - Specialties: Lowercase labels so "Cardiology" and "cardiology" match
package sanitizer
