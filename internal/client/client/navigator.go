package client

import "context"

// Navigator moves the application to another route. The client uses it to
// send the user to the login screen after the backend rejects the session.
type Navigator interface {
	Navigate(ctx context.Context, route string)
}

type NavigatorFunc func(ctx context.Context, route string)

func (f NavigatorFunc) Navigate(ctx context.Context, route string) {
	f(ctx, route)
}

type nopNavigator struct{}

func (nopNavigator) Navigate(context.Context, string) {}
