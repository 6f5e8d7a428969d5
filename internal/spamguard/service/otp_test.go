package service_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/stretchr/testify/require"
)

const otpEmail = "alice@example.com"

func TestOTPIssue(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	code, err := e.otp.Issue(ctx, otpEmail, domain.PurposeSignup, testOrigin)
	require.NoError(t, err)
	require.Regexp(t, `^\d{6}$`, code)

	rec, err := e.store.OneTimeCodes().GetLiveCode(ctx, otpEmail, domain.PurposeSignup, e.clock.Now(), domain.OTPMaxAttempts)
	require.NoError(t, err)
	require.NotEqual(t, code, rec.CodeHash)
	require.Equal(t, e.clock.Now().Add(domain.OTPTTL), rec.ExpiresAt)
	require.Zero(t, rec.Attempts)
	require.Equal(t, testOrigin, rec.Origin)
}

func TestOTPReissueReplacesCode(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	first, err := e.otp.Issue(ctx, otpEmail, domain.PurposeLogin, testOrigin)
	require.NoError(t, err)
	second, err := e.otp.Issue(ctx, otpEmail, domain.PurposeLogin, testOrigin)
	require.NoError(t, err)

	if first != second {
		ok, err := e.otp.Verify(ctx, otpEmail, domain.PurposeLogin, first, testOrigin)
		require.NoError(t, err)
		require.False(t, ok)
	}

	ok, err := e.otp.Verify(ctx, otpEmail, domain.PurposeLogin, second, testOrigin)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestOTPPurposesAreSeparate(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	code, err := e.otp.Issue(ctx, otpEmail, domain.PurposeSignup, testOrigin)
	require.NoError(t, err)

	ok, err := e.otp.Verify(ctx, otpEmail, domain.PurposeLogin, code, testOrigin)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOTPExpiry(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	code, err := e.otp.Issue(ctx, otpEmail, domain.PurposeLogin, testOrigin)
	require.NoError(t, err)

	e.clock.Advance(domain.OTPTTL)

	ok, err := e.otp.Verify(ctx, otpEmail, domain.PurposeLogin, code, testOrigin)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOTPVerifiesOnce(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	code, err := e.otp.Issue(ctx, otpEmail, domain.PurposeLogin, testOrigin)
	require.NoError(t, err)

	ok, err := e.otp.Verify(ctx, otpEmail, domain.PurposeLogin, code, testOrigin)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = e.otp.Verify(ctx, otpEmail, domain.PurposeLogin, code, testOrigin)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOTPConcurrentSubmitVerifiesOnce(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	code, err := e.otp.Issue(ctx, otpEmail, domain.PurposeLogin, testOrigin)
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		verified atomic.Int32
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := e.otp.Verify(ctx, otpEmail, domain.PurposeLogin, code, testOrigin); err == nil && ok {
				verified.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), verified.Load())
}

func TestOTPAttemptLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("below the limit", func(t *testing.T) {
		e := newEnv(t)
		code, err := e.otp.Issue(ctx, otpEmail, domain.PurposeLogin, testOrigin)
		require.NoError(t, err)

		for range domain.OTPMaxAttempts - 1 {
			ok, err := e.otp.Verify(ctx, otpEmail, domain.PurposeLogin, wrongCode(code), testOrigin)
			require.NoError(t, err)
			require.False(t, ok)
		}

		ok, err := e.otp.Verify(ctx, otpEmail, domain.PurposeLogin, code, testOrigin)
		require.NoError(t, err)
		require.True(t, ok)
		require.Empty(t, e.eventsOfType(t, domain.EventMaxOTPAttempts))
	})

	t.Run("at the limit", func(t *testing.T) {
		e := newEnv(t)
		code, err := e.otp.Issue(ctx, otpEmail, domain.PurposeSignup, testOrigin)
		require.NoError(t, err)

		for range domain.OTPMaxAttempts {
			ok, err := e.otp.Verify(ctx, otpEmail, domain.PurposeSignup, wrongCode(code), testOrigin)
			require.NoError(t, err)
			require.False(t, ok)
		}

		ok, err := e.otp.Verify(ctx, otpEmail, domain.PurposeSignup, code, testOrigin)
		require.NoError(t, err)
		require.False(t, ok)

		ev := e.eventsOfType(t, domain.EventMaxOTPAttempts)
		require.Len(t, ev, 1)
		require.Equal(t, "User alice@example.com exceeded maximum OTP attempts for signup", ev[0].Details)
	})
}

func TestOTPDeleteStale(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	used, err := e.otp.Issue(ctx, "used@example.com", domain.PurposeLogin, testOrigin)
	require.NoError(t, err)
	ok, err := e.otp.Verify(ctx, "used@example.com", domain.PurposeLogin, used, testOrigin)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = e.otp.Issue(ctx, "old@example.com", domain.PurposeLogin, testOrigin)
	require.NoError(t, err)

	e.clock.Advance(domain.OTPTTL + time.Minute)

	_, err = e.otp.Issue(ctx, "fresh@example.com", domain.PurposeLogin, testOrigin)
	require.NoError(t, err)

	n, err := e.otp.DeleteStale(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	_, err = e.store.OneTimeCodes().GetLiveCode(ctx, "fresh@example.com", domain.PurposeLogin, e.clock.Now(), domain.OTPMaxAttempts)
	require.NoError(t, err)
}

func TestOTPExhaustedCodeRejectsCorrectCode(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	code, err := e.otp.Issue(ctx, otpEmail, domain.PurposeLogin, testOrigin)
	require.NoError(t, err)

	rec, err := e.store.OneTimeCodes().GetLiveCode(ctx, otpEmail, domain.PurposeLogin, e.clock.Now(), domain.OTPMaxAttempts)
	require.NoError(t, err)

	// Counter at the limit but the row not yet burned
	for range domain.OTPMaxAttempts {
		_, err := e.store.OneTimeCodes().IncrementAttempts(ctx, rec.ID)
		require.NoError(t, err)
	}

	ok, err := e.otp.Verify(ctx, otpEmail, domain.PurposeLogin, code, testOrigin)
	require.NoError(t, err)
	require.False(t, ok)
}
