// Package apitest runs an in-process DexNote backend for tests. It speaks the
// same HTTP contract as the real service: bcrypt-checked credentials, signed
// JWT bearer tokens and FastAPI style {"detail": ...} errors.
package apitest
