// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"context"
	"log"

	"github.com/jeranaias/passkeep/internal/util"
)

// Login runs the full handshake for cred and returns the authenticated
// session.
//
// fragmentID, when non-empty, is posted as the two fragment correlation
// fields. requestTrust asks the server to remember this device: the
// trust identifier is created up front, and after a successful
// multifactor-free out-of-band approval a best-effort enrollment call is
// made.
//
// Failures return *Error with the display message. A
// *trust.EnvironmentError passes through unwrapped and must halt the
// caller; it is a broken host, not a failed login.
func (c *Client) Login(ctx context.Context, cred *Credential, fragmentID string, requestTrust bool) (*Session, error) {
	form := NewForm()
	form.Set("xml", "2")
	form.Set("username", cred.Username)
	form.Set("hash", cred.Hash)
	form.Set("iterations", util.IntToString(cred.Iterations))
	form.Set("includeprivatekeyenc", "1")
	form.Set("method", "cli")
	form.Set("outofbandsupported", "1")
	if fragmentID != "" {
		form.Set("alpfragmentid", fragmentID)
		form.Set("calculatedfragmentid", fragmentID)
	}

	trustedID, err := c.Trust.TrustID(requestTrust)
	if err != nil {
		return nil, err
	}
	if trustedID != "" {
		form.Set("uuid", trustedID)
	}

	out, server, reply := c.attempt(ctx, c.Server, cred, form)
	switch out.Kind {
	case OutcomeSuccess:
		return out.Session, nil
	case OutcomeFailure:
		return nil, &Error{Message: out.Message}
	}

	// A second factor is in play; only now is the device label worth
	// computing and attaching.
	trustLabel := ""
	if requestTrust {
		trustLabel, err = c.Trust.DeviceLabel()
		if err != nil {
			return nil, err
		}
		form.Set("trustlabel", trustLabel)
	}

	nameOverride := ""
	if out.Kind == OutcomeOutOfBand {
		oobOut, fallback, name := c.outOfBandLogin(ctx, server, cred, form, reply)
		if !fallback {
			if oobOut.Kind == OutcomeSuccess {
				if requestTrust {
					c.enrollTrust(ctx, oobOut.Session, trustedID, trustLabel)
				}
				return oobOut.Session, nil
			}
			return nil, &Error{Message: oobOut.Message, Cause: out.Cause}
		}
		nameOverride = name
	}

	mfOut := c.multifactorLogin(ctx, server, cred, form, nameOverride, out.Cause, reply)
	switch mfOut.Kind {
	case OutcomeSuccess:
		return mfOut.Session, nil
	case OutcomeFailure:
		if mfOut.Message != "" {
			return nil, &Error{Message: mfOut.Message, Cause: out.Cause}
		}
	}

	return nil, &Error{Message: msgUnspecified}
}

// enrollTrust registers the device with the server so a later login may
// skip the second factor. Best effort: enrollment failure never affects
// the session already in hand.
func (c *Client) enrollTrust(ctx context.Context, session *Session, trustedID, trustLabel string) {
	if trustedID == "" {
		return
	}
	form := NewForm()
	form.Set("token", session.Token)
	form.Set("uuid", trustedID)
	form.Set("trustlabel", trustLabel)
	if _, err := c.Transport.PostForm(ctx, session.Server, trustPage, form.Encode()); err != nil {
		log.Printf("trust enrollment failed: %v", err)
	}
}
