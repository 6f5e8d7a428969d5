/*
Package guardsdk provides a client SDK for the spamguard service.

# Overview

SDKClient covers the public endpoints: registration, login, bootstrap and
health. A successful login returns a Session, which carries the bearer token
for the authenticated endpoints.

	client := guardsdk.NewSDKClient("https://spamguard.example.com")

	// Registration is two steps; the code arrives by email
	challenge, err := client.InitiateRegistration(ctx, "user@example.com", "Secr3tPassword")
	err = client.VerifyRegistration(ctx, challenge, code)

	// So is login
	_, err = client.InitiateLogin(ctx, "user@example.com", "Secr3tPassword")
	session, err := client.VerifyLogin(ctx, "user@example.com", code)

	verdict, err := session.CheckSpam(ctx, "Congratulations, you have won a prize")

# Sessions

Session tokens are bound to the network address they were issued to and last
eight hours. There is no refresh; log in again when Expired reports true or a
request fails with 401.

Admin sessions can read the audit trail:

	logs, err := session.ListLogs(ctx, 1, 20)
	events, err := session.ListSecurityEvents(ctx, guardsdk.EventQuery{Severity: "high"})
	report, err := session.VerifySecurityEvents(ctx)

# Error Handling

Every non-success response is returned as *APIError. Messages are deliberately
vague for authentication failures:

	_, err := client.InitiateLogin(ctx, email, password)
	if guardsdk.IsStatus(err, http.StatusUnauthorized) {
		// wrong email or password, the service does not say which
	}

Rate limited responses carry RetryAfter.

# Thread Safety

SDKClient and Session hold no mutable state and are safe for concurrent use.
*/
package guardsdk
