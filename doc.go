// Package soracom provides a Go client for the SORACOM IoT connectivity API.
//
// A Client is bound to one API endpoint and starts unauthenticated. Auth
// exchanges an auth key for an api key and token; AuthToken installs a pair
// obtained elsewhere. Subscriber operations fail with ErrNotAuthenticated
// until one of them has succeeded.
//
// Basic usage:
//
//	client, err := soracom.NewClient(soracom.EndpointGlobal)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := client.Auth(ctx, authKeyID, authKey); err != nil {
//	    log.Fatal(err)
//	}
//
//	subs, err := client.ListSubscribers(ctx, &soracom.ListSubscribersOptions{
//	    TagName:           "env",
//	    TagValue:          "prod",
//	    TagValueMatchMode: soracom.TagValueMatchExact,
//	})
//
// # Sandbox
//
// SandboxClient creates disposable operators on the API sandbox. Provision
// returns a SandboxOperator that must be released:
//
//	sb, _ := soracom.NewSandboxClient()
//	op, err := sb.Provision(ctx, &soracom.SandboxInitCredential{...})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer op.Release(context.Background())
//
//	reg, _ := sb.CreateSubscriber(ctx)
//	client, _ := op.Client()
//	_ = client.RegisterSubscriber(ctx, reg)
//
// # Errors
//
// Failures of a request, its payload or its configuration are *Error values
// with one of five kinds. Only HTTP 200 counts as success; other statuses
// produce KindHTTP errors carrying the raw body, which match ErrUnauthorized,
// ErrForbidden, ErrNotFound or ErrRateLimited with errors.Is. Nothing is retried.
//
// Misuse detected before any request is sent is reported with plain errors
// instead: the sentinels ErrMissingEndpoint, ErrNotAuthenticated, ErrMissingIMSI,
// ErrSandboxNotInitialized and ErrMissingSandboxToken, or a descriptive error
// for invalid arguments such as an out-of-range token timeout. A malformed
// endpoint is the exception and yields a KindURLParse *Error.
package soracom
