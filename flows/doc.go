// Package flows defines the built-in demo flows: weather, recipe, explain,
// describe-image and list-models. Each flow is a named, schema-validated
// request/response unit performing at most one or two blocking calls against
// a generative-model backend and reshaping the result. Failures propagate to
// the caller unchanged; there are no retries.
package flows
