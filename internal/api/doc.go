// Package api implements the HTTP layer of the StudyFlow API: request
// and response models, handlers for every resource, and the shared
// error taxonomy that maps internal errors to sanitized HTTP responses.
//
// Handlers follow a uniform shape: extract the authenticated user from
// the request context, decode and validate the payload, call the
// corresponding service, and funnel every failure through
// HandleAPIError so clients always see consistent statuses and
// messages.
package api
