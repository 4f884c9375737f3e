// Package navigation decides what a click on a configured link does.
//
// Resolution happens in three steps. Classify turns an href into a Target
// without looking at any ambient state. Plan combines a Target with the path
// the user is currently on and picks exactly one Effect. A Resolver reads the
// current location, runs both steps and hands the result to one of its
// collaborators: a TabOpener, a Document or a Router.
//
//	r := navigation.NewResolver(navigation.Collaborators{
//		Tabs:     tabs,
//		Document: doc,
//		Router:   router,
//		Location: navigation.LocationFunc(func() string { return currentPath }),
//	})
//	r.Resolve("/pricing#plans")
//
// Resolve never returns an error. Missing anchors and blocked popups degrade
// to no-ops.
package navigation
