// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import "context"

// attempt runs one request/response cycle against server, following
// regional redirection up to the hop cap. It returns the outcome, the
// server the final request was posted to, and that request's raw reply
// (nil on transport failure). On success the session's Server field is
// the host that actually authenticated it.
func (c *Client) attempt(ctx context.Context, server string, cred *Credential, form *Form) (Outcome, string, []byte) {
	for hop := 0; ; hop++ {
		reply, err := c.Transport.PostForm(ctx, server, loginPage, form.Encode())
		if err != nil {
			return failure(msgUnableToPost), server, nil
		}

		if session := c.Parser.ParseSession(reply, cred.Key); session != nil {
			session.Server = server
			return Outcome{Kind: OutcomeSuccess, Session: session}, server, reply
		}

		// The server may home the account on the other regional host;
		// re-run the same form there. The hop cap keeps a misbehaving
		// server from bouncing us forever.
		if alt, ok := c.Parser.ExtractField(reply, "server"); ok && alt == altServer {
			if hop >= c.maxRedirects() {
				return failure(msgTooManyRedirects), server, reply
			}
			server = alt
			continue
		}

		cause, ok := c.Parser.ExtractField(reply, "cause")
		if !ok {
			return failure(msgUnknownCause), server, reply
		}
		if cause == causeOutOfBand {
			return Outcome{Kind: OutcomeOutOfBand, Cause: cause}, server, reply
		}
		return Outcome{Kind: OutcomeMultifactor, Cause: cause}, server, reply
	}
}
