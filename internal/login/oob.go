// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"context"
	"fmt"
	"strings"
)

// hasCapability reports whether a comma-separated capability list
// contains the given token.
func hasCapability(capabilities, capability string) bool {
	for _, token := range strings.Split(capabilities, ",") {
		if token == capability {
			return true
		}
	}
	return false
}

// outOfBandLogin polls the server until an out-of-band login is approved,
// rejected, or abandoned. reply is the response that announced the
// out-of-band requirement.
//
// fallback=true means this was (or degraded into) a passcode method: the
// caller should retry through the multifactor handler using fallbackName
// as the display name instead of polling. Otherwise the returned Outcome
// is final.
//
// The status line is cleared on every exit path.
func (c *Client) outOfBandLogin(ctx context.Context, server string, cred *Credential, form *Form, reply []byte) (out Outcome, fallback bool, fallbackName string) {
	name, okName := c.Parser.ExtractField(reply, "outofbandname")
	capabilities, okCaps := c.Parser.ExtractField(reply, "capabilities")
	if !okName || !okCaps {
		return failure(msgUnknownOutOfBand), false, ""
	}

	canPasscode := hasCapability(capabilities, "passcode")
	if canPasscode && !hasCapability(capabilities, "outofband") {
		// A passcode-only method announced through the out-of-band
		// cause; nothing to poll for.
		return Outcome{}, true, name + " OTP"
	}

	hint := ""
	if canPasscode {
		hint = ", or press Ctrl+C to enter a passcode"
	}
	c.Status.Show(fmt.Sprintf("Waiting for approval of out-of-band %s login%s...", name, hint))
	defer c.Status.Clear()

	if c.PollMaxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.PollMaxWait)
		defer cancel()
	}

	form.Set("outofbandrequest", "1")
	for {
		// Cooperative cancellation point between polls; the limiter,
		// when configured, also paces the loop here.
		if err := c.pollPause(ctx); err != nil {
			if canPasscode {
				clearOutOfBand(form)
				return Outcome{}, true, name + " OTP"
			}
			return failure(msgAbortedOutOfBand), false, ""
		}

		reply, err := c.Transport.PostForm(ctx, server, loginPage, form.Encode())
		if err != nil {
			if canPasscode {
				clearOutOfBand(form)
				return Outcome{}, true, name + " OTP"
			}
			if ctx.Err() != nil {
				return failure(msgAbortedOutOfBand), false, ""
			}
			return failure(msgUnableToPost), false, ""
		}

		if session := c.Parser.ParseSession(reply, cred.Key); session != nil {
			session.Server = server
			return Outcome{Kind: OutcomeSuccess, Session: session}, false, ""
		}

		if cause, ok := c.Parser.ExtractField(reply, "cause"); ok && cause == causeOutOfBand {
			// Still pending; the server paces us through its own
			// response latency.
			retryID, _ := c.Parser.ExtractField(reply, "retryid")
			form.Set("outofbandretry", "1")
			form.Set("outofbandretryid", retryID)
			c.Status.Progress()
			continue
		}

		return c.serverFailure(reply), false, ""
	}
}

// pollPause blocks until the next poll may start. With no limiter it
// only observes cancellation.
func (c *Client) pollPause(ctx context.Context) error {
	if c.PollLimiter != nil {
		return c.PollLimiter.Wait(ctx)
	}
	return ctx.Err()
}

// clearOutOfBand rewinds the out-of-band request markers so the form can
// be resubmitted as an ordinary passcode login.
func clearOutOfBand(form *Form) {
	form.Set("outofbandrequest", "0")
	form.Set("outofbandretry", "0")
	form.Set("outofbandretryid", "")
}
