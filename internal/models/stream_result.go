package models

// StreamResult carries either a streamed value or the error that ended the stream
type StreamResult[T any] struct {
	Value T
	Err   error
}
