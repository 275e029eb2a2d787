package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
)

// Guides lists guides; "name=value" arguments become query filters.
func (a *App) Guides(ctx context.Context, args []string) error {
	query, err := parseArgs(args)
	if err != nil {
		return err
	}
	guides, err := a.matchService.Guides(ctx, query)
	if err != nil {
		return err
	}
	a.printList("guides", guides)
	return nil
}

func (a *App) Guide(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: guide <id>")
	}
	g, err := a.matchService.Guide(ctx, args[0])
	if err != nil {
		return err
	}
	a.printJSON(g)
	return nil
}

// MyGuides lists the guides of the current user, or of the given username.
func (a *App) MyGuides(ctx context.Context, args []string) error {
	username := ""
	if len(args) > 0 {
		username = args[0]
	}
	guides, err := a.matchService.UserGuides(ctx, username)
	if err != nil {
		return err
	}
	a.printList("guides", guides)
	return nil
}

// NewGuide reads the guide's fields as name=value lines and creates it.
func (a *App) NewGuide(ctx context.Context) error {
	fields, err := GetKeyValues(a.reader, "Enter the guide fields", a.writer())
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return errCanceled
	}
	data := make(map[string]any, len(fields))
	for k, v := range fields {
		data[k] = v
	}

	g, err := a.matchService.CreateGuide(ctx, data)
	if err != nil {
		return err
	}
	a.println("Guide created:")
	a.printJSON(g)
	return nil
}

func (a *App) Matches(ctx context.Context) error {
	matches, err := a.matchService.Matches(ctx)
	if err != nil {
		return err
	}
	a.printList("matches", matches)
	return nil
}

func (a *App) Like(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: like <guideID>")
	}
	m, err := a.matchService.Like(ctx, args[0], nil)
	if err != nil {
		return err
	}
	a.println("Liked:")
	a.printJSON(m)
	return nil
}

func (a *App) Dislike(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: dislike <matchID>")
	}
	msg, err := a.matchService.Dislike(ctx, args[0])
	if err != nil {
		return err
	}
	a.println(msg)
	return nil
}

func (a *App) printList(noun string, items []json.RawMessage) {
	if len(items) == 0 {
		a.println("No", noun, "found.")
		return
	}
	for _, it := range items {
		a.printJSON(it)
	}
}

func (a *App) printJSON(raw json.RawMessage) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		a.println(string(raw))
		return
	}
	a.println(buf.String())
}
