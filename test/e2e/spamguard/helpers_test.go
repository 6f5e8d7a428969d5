//go:build e2e

package spamguard_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"regexp"
	"testing"
	"time"

	"github.com/aussiebroadwan/spamguard/pkg/guardsdk"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for spamguard end-to-end tests.
 * This includes container setup, mailbox access, and assertions.
 */

const (
	testImageName = "spamguard-test:latest"
	mailpitImage  = "axllent/mailpit:latest"
	mailpitAlias  = "mailpit"

	bootstrapToken = "test-bootstrap-token-12345"
	adminEmail     = "admin@example.com"
	adminPassword  = "Admin123pass"
	userPassword   = "Password123"
)

var codePattern = regexp.MustCompile(`>\s*(\d{6})\s*<`)

// TestMain builds the Docker image once before all tests and cleans it up
// after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building spamguard Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up spamguard Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

// buildDockerImage builds the test Docker image.
func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/spamguard/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

// cleanupDockerImage removes the test Docker image.
func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// stack is one spamguard container plus the mailpit instance it delivers to.
type stack struct {
	BaseURL string
	MailURL string
}

// relaxedLimits keeps tests that make many rapid requests clear of the
// production limits.
var relaxedLimits = map[string]string{
	"RATELIMIT_DEFAULT_REQUESTS":  "1000",
	"RATELIMIT_DEFAULT_BURST":     "1000",
	"RATELIMIT_CLASSIFY_REQUESTS": "1000",
	"RATELIMIT_CLASSIFY_BURST":    "1000",
}

// setupStack starts mailpit and spamguard on a private network. extraEnv
// overrides the defaults, pass relaxedLimits for most tests.
func setupStack(t *testing.T, extraEnv map[string]string) *stack {
	t.Helper()
	ctx := context.Background()

	nw, err := network.New(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := nw.Remove(context.Background()); err != nil {
			t.Logf("failed to remove network: %v", err)
		}
	})

	mailpit, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:          mailpitImage,
			ExposedPorts:   []string{"1025/tcp", "8025/tcp"},
			Networks:       []string{nw.Name},
			NetworkAliases: map[string][]string{nw.Name: {mailpitAlias}},
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8025/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { terminate(t, mailpit) })

	env := map[string]string{
		"BOOTSTRAP_TOKEN":         bootstrapToken,
		"SPAMGUARD_DATABASE_FILE": "/data/spamguard.db",
		"SPAMGUARD_PEPPER_FILE":   "/data/pepper",
		"JWT_SECRET":              "e2e-session-secret-with-at-least-32-bytes",
		"ENCRYPTION_KEY":          "e2e-carrier-key",
		"EMAIL_SERVER":            mailpitAlias,
		"EMAIL_PORT":              "1025",
		"EMAIL_FROM":              "spamguard@example.com",
		"MODEL_URL":               "http://model.invalid:8501",
		"MODEL_TIMEOUT":           "2s",
		"ENV":                     "test",
		"LOG_LEVEL":               "info",
		"LOG_FORMAT":              "json",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	app, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"5000/tcp"},
			Networks:     []string{nw.Name},
			Env:          env,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("5000/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { terminate(t, app) })

	return &stack{
		BaseURL: endpoint(t, app, "5000/tcp"),
		MailURL: endpoint(t, mailpit, "8025/tcp"),
	}
}

func endpoint(t *testing.T, c testcontainers.Container, port nat.Port) string {
	t.Helper()
	ctx := context.Background()

	mappedPort, err := c.MappedPort(ctx, port)
	require.NoError(t, err)
	host, err := c.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

func terminate(t *testing.T, c testcontainers.Container) {
	if err := c.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

// mailpitSearch is the subset of the mailpit search response we read.
type mailpitSearch struct {
	Messages []struct {
		ID      string `json:"ID"`
		Subject string `json:"Subject"`
	} `json:"messages"`
}

type mailpitMessage struct {
	HTML string `json:"HTML"`
}

// latestCode waits until more than skip messages have reached addr and
// returns the code in the newest one.
func (s *stack) latestCode(t *testing.T, addr string, skip int) string {
	t.Helper()

	var code string
	require.Eventually(t, func() bool {
		var found mailpitSearch
		q := url.Values{"query": {"to:" + addr}}
		if !getJSON(s.MailURL+"/api/v1/search?"+q.Encode(), &found) {
			return false
		}
		if len(found.Messages) <= skip {
			return false
		}

		// Newest first
		var msg mailpitMessage
		if !getJSON(s.MailURL+"/api/v1/message/"+found.Messages[0].ID, &msg) {
			return false
		}
		m := codePattern.FindStringSubmatch(msg.HTML)
		if m == nil {
			return false
		}
		code = m[1]
		return true
	}, 15*time.Second, 200*time.Millisecond, "no verification code delivered to %s", addr)

	return code
}

func getJSON(u string, v any) bool {
	resp, err := http.Get(u)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	return json.NewDecoder(resp.Body).Decode(v) == nil
}

// registerUser runs the full two-step registration.
func registerUser(t *testing.T, s *stack, client *guardsdk.SDKClient, email string) {
	t.Helper()

	challenge, err := client.InitiateRegistration(t.Context(), email, userPassword)
	require.NoError(t, err, "registration should start")
	require.True(t, challenge.Encrypted)

	code := s.latestCode(t, challenge.Email, 0)
	require.NoError(t, client.VerifyRegistration(t.Context(), challenge, code), "registration should complete")
}

// loginUser runs the full two-step login. seen is the number of messages
// already delivered to email.
func loginUser(t *testing.T, s *stack, client *guardsdk.SDKClient, email, password string, seen int) *guardsdk.Session {
	t.Helper()

	started, err := client.InitiateLogin(t.Context(), email, password)
	require.NoError(t, err, "login should start")

	code := s.latestCode(t, started.Email, seen)
	session, err := client.VerifyLogin(t.Context(), started.Email, code)
	require.NoError(t, err, "login should complete")
	require.NotEmpty(t, session.Token())

	return session
}

// bootstrapAdmin creates the admin identity and logs in as it.
func bootstrapAdmin(t *testing.T, s *stack, client *guardsdk.SDKClient) *guardsdk.Session {
	t.Helper()

	resp, err := client.Bootstrap(t.Context(), bootstrapToken, guardsdk.BootstrapRequest{
		Email:    adminEmail,
		Password: adminPassword,
	})
	require.NoError(t, err, "bootstrap should succeed")
	require.Equal(t, "admin", resp.Role)

	return loginUser(t, s, client, adminEmail, adminPassword, 0)
}

// assertStatus checks that err is an API error with the given status.
func assertStatus(t *testing.T, err error, status int, context string) {
	t.Helper()
	require.Error(t, err, context)
	require.True(t, guardsdk.IsStatus(err, status), "%s - expected HTTP %d, got: %v", context, status, err)
}
