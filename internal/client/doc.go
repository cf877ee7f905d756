// Package client talks to the task API over HTTP.
//
// Every request goes through Client.Do. When the server answers 401, the
// request is held while the Prompter collects credentials and a new session
// is obtained through /api/login or /api/register. The held request is then
// sent again exactly once and that response is returned whatever it is.
// Cancelling the prompt fails the request with ErrAuthenticationRequired.
// Concurrent requests that hit 401 at the same time share one prompt.
package client
