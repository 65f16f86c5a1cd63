// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Test replies are newline-separated key=value lines. okReply carries
// ok=1 plus session attributes; errReply carries whatever error fields
// the scenario needs. The fake parser reads them back.

func okReply(uid, id, token string) []byte {
	return []byte("ok=1\nuid=" + uid + "\nid=" + id + "\ntoken=" + token)
}

func errReply(pairs ...string) []byte {
	return []byte(strings.Join(pairs, "\n"))
}

func parseReply(reply []byte) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(string(reply), "\n") {
		if name, value, ok := strings.Cut(line, "="); ok {
			fields[name] = value
		}
	}
	return fields
}

type fakeParser struct{}

func (fakeParser) ParseSession(reply []byte, key []byte) *Session {
	fields := parseReply(reply)
	if fields["ok"] != "1" {
		return nil
	}
	return &Session{UID: fields["uid"], ID: fields["id"], Token: fields["token"]}
}

func (fakeParser) ExtractField(reply []byte, name string) (string, bool) {
	value, ok := parseReply(reply)[name]
	return value, ok
}

type postRecord struct {
	server string
	page   string
	form   string
}

type transportStep struct {
	reply []byte
	err   error
}

// fakeTransport plays back scripted replies and records every post.
type fakeTransport struct {
	steps []transportStep
	posts []postRecord
}

func (t *fakeTransport) PostForm(ctx context.Context, server, page, form string) ([]byte, error) {
	t.posts = append(t.posts, postRecord{server: server, page: page, form: form})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(t.posts) > len(t.steps) {
		return nil, errors.New("unscripted request")
	}
	step := t.steps[len(t.posts)-1]
	return step.reply, step.err
}

type promptResult struct {
	value string
	ok    bool
}

type promptRecord struct {
	label      string
	annotation string
	line       string
}

// fakePrompter plays back scripted answers and records every prompt.
type fakePrompter struct {
	answers []promptResult
	prompts []promptRecord
}

func (p *fakePrompter) ReadSecret(label, annotation, format string, args ...any) (string, bool) {
	p.prompts = append(p.prompts, promptRecord{
		label:      label,
		annotation: annotation,
		line:       fmt.Sprintf(format, args...),
	})
	if len(p.prompts) > len(p.answers) {
		return "", false
	}
	answer := p.answers[len(p.prompts)-1]
	return answer.value, answer.ok
}

// fakeStatus records the status line calls.
type fakeStatus struct {
	shows    []string
	progress int
	clears   int
}

func (s *fakeStatus) Show(text string) { s.shows = append(s.shows, text) }
func (s *fakeStatus) Progress()        { s.progress++ }
func (s *fakeStatus) Clear()           { s.clears++ }

// fakeTrust hands out fixed trust material and records force requests.
type fakeTrust struct {
	id       string
	label    string
	idErr    error
	labelErr error
	forced   []bool
}

func (t *fakeTrust) TrustID(forceCreate bool) (string, error) {
	t.forced = append(t.forced, forceCreate)
	if t.idErr != nil {
		return "", t.idErr
	}
	if !forceCreate && t.id == "" {
		return "", nil
	}
	return t.id, nil
}

func (t *fakeTrust) DeviceLabel() (string, error) {
	if t.labelErr != nil {
		return "", t.labelErr
	}
	return t.label, nil
}

func newTestClient(transport *fakeTransport) *Client {
	return &Client{
		Transport:    transport,
		Parser:       fakeParser{},
		Prompt:       &fakePrompter{},
		Status:       &fakeStatus{},
		Trust:        &fakeTrust{},
		Server:       "lastpass.com",
		MaxRedirects: 3,
	}
}

func testCredential() *Credential {
	return &Credential{
		Username:   "user@example.com",
		Hash:       "abcd1234",
		Iterations: 100100,
		Key:        make([]byte, 32),
	}
}
