// Package api contains the HTTP boundary of the application: request and
// response models, the task handlers, and the mapping from internal errors
// to safe client-facing responses. Handlers translate raw parameters into
// store queries and domain mutations; they hold no business logic of their
// own.
package api
