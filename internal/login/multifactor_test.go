// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChallengeForCause(t *testing.T) {
	tests := []struct {
		cause string
		name  string
		field string
	}{
		{"googleauthrequired", "Google Authenticator Code", "otp"},
		{"otprequired", "YubiKey OTP", "otp"},
		{"sesameotprequired", "Sesame OTP", "sesameotp"},
		{"outofbandrequired", "Out-of-Band OTP", "otp"},
		{"microsoftauthrequired", "Microsoft Authenticator Code", "otp"},
	}
	for _, tt := range tests {
		challenge := challengeForCause(tt.cause)
		require.NotNil(t, challenge, tt.cause)
		require.Equal(t, tt.name, challenge.Name)
		require.Equal(t, tt.field, challenge.Field)
		require.NotEmpty(t, challenge.CauseFailed)
	}
}

func TestChallengeForCauseUnknown(t *testing.T) {
	require.Nil(t, challengeForCause("unknownfactor"))
	require.Nil(t, challengeForCause(""))
	require.Nil(t, challengeForCause("googleauthrequired2"))
}

func TestMultifactorWrongThenRightCode(t *testing.T) {
	transport := &fakeTransport{steps: []transportStep{
		{reply: errReply("cause=googleauthfailed")},
		{reply: okReply("u1", "s1", "t1")},
	}}
	client := newTestClient(transport)
	prompter := &fakePrompter{answers: []promptResult{
		{value: "000000", ok: true},
		{value: "123456", ok: true},
	}}
	client.Prompt = prompter

	form := NewForm()
	form.Set("xml", "2")
	out := client.multifactorLogin(context.Background(), "lastpass.com", testCredential(), form, "", "googleauthrequired", nil)

	require.Equal(t, OutcomeSuccess, out.Kind)
	require.Equal(t, "t1", out.Session.Token)
	require.Equal(t, "lastpass.com", out.Session.Server)

	// First prompt is clean; the retry carries the rejection line.
	require.Len(t, prompter.prompts, 2)
	require.Equal(t, "", prompter.prompts[0].annotation)
	require.Equal(t, "Invalid multifactor code; please try again.", prompter.prompts[1].annotation)
	require.Equal(t, "Please enter your Google Authenticator Code for <user@example.com>.", prompter.prompts[0].line)

	// The rejected code was overwritten in place, not appended.
	require.Len(t, transport.posts, 2)
	require.Contains(t, transport.posts[0].form, "otp=000000")
	require.Contains(t, transport.posts[1].form, "otp=123456")
	require.Equal(t, 1, strings.Count(transport.posts[1].form, "otp="))
}

func TestMultifactorSesameField(t *testing.T) {
	transport := &fakeTransport{steps: []transportStep{
		{reply: okReply("u1", "s1", "t1")},
	}}
	client := newTestClient(transport)
	client.Prompt = &fakePrompter{answers: []promptResult{{value: "sesame123", ok: true}}}

	out := client.multifactorLogin(context.Background(), "lastpass.com", testCredential(), NewForm(), "", "sesameotprequired", nil)

	require.Equal(t, OutcomeSuccess, out.Kind)
	require.Contains(t, transport.posts[0].form, "sesameotp=sesame123")
}

func TestMultifactorAborted(t *testing.T) {
	client := newTestClient(&fakeTransport{})
	client.Prompt = &fakePrompter{answers: []promptResult{{ok: false}}}

	out := client.multifactorLogin(context.Background(), "lastpass.com", testCredential(), NewForm(), "", "otprequired", nil)

	require.Equal(t, OutcomeFailure, out.Kind)
	require.Equal(t, "Aborted multifactor authentication.", out.Message)
}

func TestMultifactorNameOverride(t *testing.T) {
	client := newTestClient(&fakeTransport{steps: []transportStep{
		{reply: okReply("u1", "s1", "t1")},
	}})
	prompter := &fakePrompter{answers: []promptResult{{value: "123456", ok: true}}}
	client.Prompt = prompter

	client.multifactorLogin(context.Background(), "lastpass.com", testCredential(), NewForm(), "Duo OTP", "outofbandrequired", nil)

	require.Equal(t, "Please enter your Duo OTP for <user@example.com>.", prompter.prompts[0].line)
}

func TestMultifactorUnknownCauseUsesServerMessage(t *testing.T) {
	client := newTestClient(&fakeTransport{})

	reply := errReply("cause=unknownfactor", "message=Bad password!")
	out := client.multifactorLogin(context.Background(), "lastpass.com", testCredential(), NewForm(), "", "unknownfactor", reply)

	require.Equal(t, OutcomeFailure, out.Kind)
	require.Equal(t, "Bad password!", out.Message)
}

func TestMultifactorUnknownCauseNoMessage(t *testing.T) {
	client := newTestClient(&fakeTransport{})

	out := client.multifactorLogin(context.Background(), "lastpass.com", testCredential(), NewForm(), "", "unknownfactor", errReply("cause=unknownfactor"))

	require.Equal(t, OutcomeFailure, out.Kind)
	require.Equal(t, "Could not parse error message to login request.", out.Message)
}

func TestMultifactorTransportFailure(t *testing.T) {
	client := newTestClient(&fakeTransport{steps: []transportStep{
		{err: context.DeadlineExceeded},
	}})
	client.Prompt = &fakePrompter{answers: []promptResult{{value: "123456", ok: true}}}

	out := client.multifactorLogin(context.Background(), "lastpass.com", testCredential(), NewForm(), "", "otprequired", nil)

	require.Equal(t, OutcomeFailure, out.Kind)
	require.Equal(t, "Unable to post login request.", out.Message)
}

func TestFilterMessageStripsNoise(t *testing.T) {
	in := "Multifactor authentication required. Upgrade your browser extension so you can enter it."
	require.Equal(t, "Multifactor authentication required.", filterMessage(in))
	require.Equal(t, "Bad password!", filterMessage("Bad password!"))
}
