package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/atinyakov/LangHelper/internal/client/api"
	"github.com/atinyakov/LangHelper/internal/client/wordfile"
	"github.com/atinyakov/LangHelper/internal/models"
	"github.com/urfave/cli/v3"
)

// Register creates an account and logs in.
func (r *Runner) Register(ctx context.Context, cmd *cli.Command) error {
	return r.startSession(ctx, cmd, r.api.Register)
}

// Login opens a session for an existing account.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	return r.startSession(ctx, cmd, r.api.Login)
}

type sessionFunc func(ctx context.Context, username, password string) (*api.Session, error)

func (r *Runner) startSession(ctx context.Context, cmd *cli.Command, open sessionFunc) error {
	username := r.valueOrPrompt(cmd.String("username"), "Username")
	password := r.valueOrPrompt(cmd.String("password"), "Password")

	s, err := open(ctx, username, password)
	if err != nil {
		switch {
		case api.IsStatus(err, http.StatusUnauthorized):
			return errors.New("invalid username or password")
		case api.IsStatus(err, http.StatusConflict):
			return fmt.Errorf("username %q is already taken", username)
		}
		return err
	}

	r.state.Begin(s.Token, s.User)
	if err := r.state.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	r.writePlainln("Welcome, %s!", s.User.Username)
	if s.Imported > 0 {
		r.writePlainln("Imported %d word(s) from the browser extension.", s.Imported)
	}
	return nil
}

// Logout ends the session on the server and forgets it locally.
func (r *Runner) Logout(ctx context.Context, _ *cli.Command) error {
	if !r.state.LoggedIn {
		r.writePlainln("Not logged in.")
		return nil
	}
	if err := r.api.Logout(ctx); err != nil && !api.IsStatus(err, http.StatusUnauthorized) {
		r.logger.Warn("server logout failed", "err", err)
	}

	r.state.Clear()
	if err := r.state.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	r.writePlainln("Logged out.")
	return nil
}

// Settings shows the profile, or updates it when any setting flag is given.
func (r *Runner) Settings(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireLogin(); err != nil {
		return err
	}

	s := models.Settings{
		NativeLanguage: cmd.String("native"),
		TargetLanguage: cmd.String("target"),
		Proficiency:    cmd.String("proficiency"),
	}

	var (
		user *models.User
		err  error
	)
	if s == (models.Settings{}) {
		user, err = r.api.Settings(ctx)
	} else {
		user, err = r.api.UpdateSettings(ctx, s)
	}
	if err != nil {
		return r.handleAuthError(err)
	}

	r.writePlainln("User:        %s", user.Username)
	r.writePlainln("Native:      %s", user.NativeLanguage)
	r.writePlainln("Learning:    %s", user.TargetLanguage)
	r.writePlainln("Proficiency: %s", user.Proficiency)
	return nil
}

// Words lists the vocabulary, starred entries marked with '*'.
func (r *Runner) Words(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireLogin(); err != nil {
		return err
	}

	entries, err := r.api.Words(ctx, cmd.Bool("starred"))
	if err != nil {
		return r.handleAuthError(err)
	}
	if len(entries) == 0 {
		r.writePlainln("No words yet.")
		return nil
	}
	for _, e := range entries {
		mark := " "
		if e.Starred {
			mark = "*"
		}
		r.writePlainln("%s %s", mark, e.Word)
	}
	return nil
}

// Add adds one word.
func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireLogin(); err != nil {
		return err
	}

	res, err := r.api.AddWord(ctx, cmd.StringArg("word"))
	if err != nil {
		return r.handleAuthError(err)
	}
	r.writePlainln("%s", res.Message)
	r.warnSync(res.Sync.Warning)
	return nil
}

// Remove deletes a word by its text.
func (r *Runner) Remove(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireLogin(); err != nil {
		return err
	}

	entry, err := r.findEntry(ctx, cmd.StringArg("word"))
	if err != nil {
		return err
	}
	res, err := r.api.RemoveWord(ctx, entry.ID)
	if err != nil {
		return r.handleAuthError(err)
	}
	r.writePlainln("%s", res.Message)
	r.warnSync(res.Sync.Warning)
	return nil
}

// Star toggles the starred flag of a word.
func (r *Runner) Star(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireLogin(); err != nil {
		return err
	}

	entry, err := r.findEntry(ctx, cmd.StringArg("word"))
	if err != nil {
		return err
	}
	starred, err := r.api.ToggleStar(ctx, entry.ID)
	if err != nil {
		return r.handleAuthError(err)
	}
	if starred {
		r.writePlainln("Starred '%s'.", entry.Word)
	} else {
		r.writePlainln("Unstarred '%s'.", entry.Word)
	}
	return nil
}

// Sync pulls words saved through the browser extension.
func (r *Runner) Sync(ctx context.Context, _ *cli.Command) error {
	if err := r.requireLogin(); err != nil {
		return err
	}

	n, err := r.api.Import(ctx)
	if err != nil {
		return r.handleAuthError(err)
	}
	r.writePlainln("Imported %d word(s) from the browser extension.", n)
	return nil
}

// ImportFile adds every word of an .xlsx or .csv file.
func (r *Runner) ImportFile(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireLogin(); err != nil {
		return err
	}

	path := cmd.StringArg("path")
	if path == "" {
		return errors.New("a file path is required")
	}
	words, err := wordfile.Read(path, wordfile.Options{
		Sheet:      cmd.String("sheet"),
		Column:     int(cmd.Int("column")),
		SkipHeader: cmd.Bool("skip-header"),
	})
	if err != nil {
		return err
	}

	var added, existing, unsynced int
	for _, w := range words {
		res, err := r.api.AddWord(ctx, w)
		if err != nil {
			return r.handleAuthError(err)
		}
		if !res.Added {
			existing++
			continue
		}
		added++
		if res.Sync.Attempted && !res.Sync.OK {
			unsynced++
		}
	}

	r.writePlainln("Added %d word(s), %d already known.", added, existing)
	if unsynced > 0 {
		r.logger.Warn("some words were not mirrored to the browser extension", "words", unsynced)
	}
	return nil
}

// Quiz asks a question about a random starred word and remembers it for Answer.
func (r *Runner) Quiz(ctx context.Context, _ *cli.Command) error {
	if err := r.requireLogin(); err != nil {
		return err
	}

	q, err := r.api.Quiz(ctx)
	if err != nil {
		if api.IsStatus(err, http.StatusConflict) {
			return errors.New("star some words first, the quiz only uses starred words")
		}
		return r.handleAuthError(err)
	}

	r.state.SetQuiz(q)
	if err := r.state.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	r.writePlainln("%s", q.Question)
	return nil
}

// Answer grades the answer to the open quiz question.
func (r *Runner) Answer(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireLogin(); err != nil {
		return err
	}
	q, ok := r.state.Quiz()
	if !ok {
		return errors.New("no open quiz, run 'langhelper quiz' first")
	}

	answer := r.valueOrPrompt(strings.Join(cmd.Args().Slice(), " "), "Answer")
	fb, err := r.api.QuizFeedback(ctx, q, answer)
	if err != nil {
		return r.handleAuthError(err)
	}

	r.state.ClearQuiz()
	if err := r.state.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	r.writePlainln("%s", fb)
	return nil
}

// Revise asks for feedback on a piece of writing.
func (r *Runner) Revise(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireLogin(); err != nil {
		return err
	}

	text := r.valueOrPrompt(strings.Join(cmd.Args().Slice(), " "), "Text")
	fb, err := r.api.WritingFeedback(ctx, text)
	if err != nil {
		return r.handleAuthError(err)
	}
	r.writePlainln("%s", fb)
	return nil
}

func (r *Runner) findEntry(ctx context.Context, word string) (models.VocabularyEntry, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return models.VocabularyEntry{}, models.ErrEmptyWord
	}

	entries, err := r.api.Words(ctx, false)
	if err != nil {
		return models.VocabularyEntry{}, r.handleAuthError(err)
	}
	for _, e := range entries {
		if e.Word == word {
			return e, nil
		}
	}
	return models.VocabularyEntry{}, fmt.Errorf("'%s' is not in your vocabulary", word)
}
