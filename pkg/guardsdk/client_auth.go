package guardsdk

import (
	"context"
	"net/http"
)

// InitiateRegistration sends a signup code to email. The returned carrier
// must be passed back to VerifyRegistration.
func (c *SDKClient) InitiateRegistration(ctx context.Context, email, password string) (*RegisterInitiateResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/register/initiate",
		RegisterInitiateRequest{Email: email, Password: password}, nil)
	if err != nil {
		return nil, err
	}

	var out RegisterInitiateResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyRegistration completes a registration with the sealed carrier from
// InitiateRegistration.
func (c *SDKClient) VerifyRegistration(ctx context.Context, challenge *RegisterInitiateResponse, otp string) error {
	return c.verifyRegistration(ctx, RegisterVerifyRequest{
		Email:     challenge.Email,
		Password:  challenge.Password,
		Encrypted: challenge.Encrypted,
		OTP:       otp,
	})
}

// VerifyRegistrationPlain completes a registration by resending the
// plaintext password instead of the carrier.
func (c *SDKClient) VerifyRegistrationPlain(ctx context.Context, email, password, otp string) error {
	return c.verifyRegistration(ctx, RegisterVerifyRequest{
		Email:    email,
		Password: password,
		OTP:      otp,
	})
}

func (c *SDKClient) verifyRegistration(ctx context.Context, req RegisterVerifyRequest) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/register/verify", req, nil)
	if err != nil {
		return err
	}

	var out MessageResponse
	return decodeJSON(resp, &out, http.StatusCreated)
}

// InitiateLogin checks credentials and sends a login code.
func (c *SDKClient) InitiateLogin(ctx context.Context, email, password string) (*LoginInitiateResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/login/initiate",
		LoginInitiateRequest{Email: email, Password: password}, nil)
	if err != nil {
		return nil, err
	}

	var out LoginInitiateResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyLogin exchanges a login code for an authenticated Session.
func (c *SDKClient) VerifyLogin(ctx context.Context, email, otp string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/login/verify",
		LoginVerifyRequest{Email: email, OTP: otp}, nil)
	if err != nil {
		return nil, err
	}

	var out LoginVerifyResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return c.NewSession(out.Token, out.Role, out.ExpiresAt), nil
}

// Bootstrap creates the first admin identity. token is the configured
// bootstrap token.
func (c *SDKClient) Bootstrap(ctx context.Context, token string, req BootstrapRequest) (*BootstrapResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/bootstrap", req,
		map[string]string{"X-Bootstrap-Token": token})
	if err != nil {
		return nil, err
	}

	var out BootstrapResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
