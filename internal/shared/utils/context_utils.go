package utils

import (
	"context"
	"errors"

	"menu-portal/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrRequestIDNotFound  = errors.New("requestID not found in context")
	ErrRequestIDNotString = errors.New("requestID in context is not a string")
	ErrComponentNotFound  = errors.New("component not found in context")
	ErrOperationNotFound  = errors.New("operation not found in context")
)

// GetRequestIDFromContext retrieves the request ID from the context.
// It returns an error if the request ID is not found or is not a string.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.RequestIDKey)
	if val == nil {
		return "", ErrRequestIDNotFound
	}
	requestID, ok := val.(string)
	if !ok {
		return "", ErrRequestIDNotString
	}
	return requestID, nil
}

// GetComponentFromContext retrieves the component name from the context.
func GetComponentFromContext(ctx context.Context) (string, error) {
	component, ok := ctx.Value(contextkeys.ComponentKey).(string)
	if !ok {
		return "", ErrComponentNotFound
	}
	return component, nil
}

// GetOperationFromContext retrieves the operation name from the context.
func GetOperationFromContext(ctx context.Context) (string, error) {
	operation, ok := ctx.Value(contextkeys.OperationKey).(string)
	if !ok {
		return "", ErrOperationNotFound
	}
	return operation, nil
}

// WithRequestID returns a copy of ctx carrying the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithComponent returns a copy of ctx carrying the component name.
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, contextkeys.ComponentKey, component)
}

// WithOperation returns a copy of ctx carrying the operation name.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, contextkeys.OperationKey, operation)
}
