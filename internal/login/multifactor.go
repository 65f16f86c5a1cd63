// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import "context"

// =============================================================================
// CHALLENGE TABLE
// =============================================================================

// Challenge describes one kind of multifactor requirement: how the
// server names it, which cause strings announce and reject it, and which
// form field the code posts under. The set is closed; the protocol
// defines exactly these kinds.
type Challenge struct {
	// Name is the default display name shown at the prompt.
	Name string

	// CauseRequired is the cause announcing this challenge.
	CauseRequired string

	// CauseFailed is the cause rejecting a wrong code for it.
	CauseFailed string

	// Field is the form field the code is posted under.
	Field string
}

var challenges = [...]Challenge{
	{
		Name:          "Google Authenticator Code",
		CauseRequired: "googleauthrequired",
		CauseFailed:   "googleauthfailed",
		Field:         "otp",
	},
	{
		Name:          "YubiKey OTP",
		CauseRequired: "otprequired",
		CauseFailed:   "otpfailed",
		Field:         "otp",
	},
	{
		Name:          "Sesame OTP",
		CauseRequired: "sesameotprequired",
		CauseFailed:   "sesameotpfailed",
		Field:         "sesameotp",
	},
	{
		Name:          "Out-of-Band OTP",
		CauseRequired: "outofbandrequired",
		CauseFailed:   "multifactorresponsefailed",
		Field:         "otp",
	},
	{
		Name:          "Microsoft Authenticator Code",
		CauseRequired: "microsoftauthrequired",
		CauseFailed:   "microsoftauthfailed",
		Field:         "otp",
	},
}

// challengeForCause returns the challenge whose CauseRequired matches
// exactly, or nil when the cause is not a multifactor condition.
func challengeForCause(cause string) *Challenge {
	for i := range challenges {
		if challenges[i].CauseRequired == cause {
			return &challenges[i]
		}
	}
	return nil
}

// =============================================================================
// CHALLENGE HANDLER
// =============================================================================

// multifactorLogin runs the interactive code-entry loop for cause. The
// loop is bounded only by user action: a wrong code re-prompts, anything
// else ends it. nameOverride, when non-empty, replaces the challenge's
// display name (the out-of-band fallback path supplies one).
func (c *Client) multifactorLogin(ctx context.Context, server string, cred *Credential, form *Form, nameOverride, cause string, reply []byte) Outcome {
	challenge := challengeForCause(cause)
	if challenge == nil {
		// Not a multifactor condition; the server's own message is the
		// best explanation we have.
		return c.serverFailure(reply)
	}

	name := challenge.Name
	if nameOverride != "" {
		name = nameOverride
	}

	annotation := ""
	for {
		code, ok := c.Prompt.ReadSecret("Code", annotation, "Please enter your %s for <%s>.", name, cred.Username)
		if !ok {
			return failure(msgAbortedChallenge)
		}
		form.Set(challenge.Field, code)

		reply, err := c.Transport.PostForm(ctx, server, loginPage, form.Encode())
		if err != nil {
			return failure(msgUnableToPost)
		}

		if session := c.Parser.ParseSession(reply, cred.Key); session != nil {
			session.Server = server
			return Outcome{Kind: OutcomeSuccess, Session: session}
		}

		if next, ok := c.Parser.ExtractField(reply, "cause"); ok && next == challenge.CauseFailed {
			annotation = msgInvalidCodeRetry
			continue
		}
		return c.serverFailure(reply)
	}
}
