// Package expensesdk is the Go client for the ExpenseFlow service.
//
// A Client performs unauthenticated calls (health, JWKS) and logs users in.
// Login returns a Session and persists it to a Storage under the
// "currentUser" key, so a later process can pick it up again with Restore
// without contacting the server:
//
//	client := expensesdk.NewClient("http://localhost:8080")
//	storage := expensesdk.NewFileStorage(dir)
//
//	sess, ok, err := client.Login(ctx, storage, "john.doe", "password")
//	if err != nil {
//		return err
//	}
//	if !ok {
//		// invalid username or password
//	}
//
//	menu, err := sess.Menu(ctx)
//	view, err := sess.Page(ctx, "track-requests", url.Values{"q": {"travel"}})
//	ack, err := sess.Action(ctx, "reports", "export", map[string]string{"format": "pdf"})
//
// Restore trusts whatever is stored. The server still verifies the token on
// every call, so a tampered or revoked session fails there with
// ErrInvalidToken.
//
// Failing calls return an *APIError, or a *ValidationError when a submitted
// form is rejected. Both can be written to an http.ResponseWriter with
// WriteError, which is how the service itself produces them.
package expensesdk
