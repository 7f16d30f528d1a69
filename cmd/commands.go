package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gennadis/pdfchatui/internal/chat"
	"github.com/gennadis/pdfchatui/internal/config"
	"github.com/gennadis/pdfchatui/internal/session"
	"github.com/gennadis/pdfchatui/internal/status"
	"github.com/gennadis/pdfchatui/internal/ui"
	"github.com/gennadis/pdfchatui/internal/upload"
)

const usage = `usage: pdfchat [command]

commands:
  tui               interactive upload and chat (default)
  upload <file.pdf> upload a document and make it the current session
  ask <message>     ask one question about the current document
  session           print the current document id`

type app struct {
	cfg     *config.Config
	session *session.Holder
	banner  *status.Banner
	uploads *upload.Controller
	chats   *chat.Controller
	out     io.Writer
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.runTUI(ctx)
	}

	switch args[0] {
	case "tui":
		return a.runTUI(ctx)
	case "upload":
		return a.runUpload(ctx, args[1:])
	case "ask":
		return a.runAsk(ctx, args[1:])
	case "session":
		return a.runSession()
	case "help", "-h", "--help":
		fmt.Fprintln(a.out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}
}

func (a *app) runTUI(ctx context.Context) error {
	m := ui.New(a.uploads, a.chats, a.session, a.banner, ui.Options{
		Context:   ctx,
		PickerDir: a.cfg.PickerDir,
	})
	return ui.Run(ctx, m)
}

func (a *app) runUpload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: pdfchat upload <file.pdf>")
	}
	if err := a.uploads.Select(args[0]); err != nil {
		return err
	}

	err := a.uploads.Upload(ctx)
	if st := a.banner.Current(); st != nil {
		fmt.Fprintln(a.out, st.Message)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Session: %s\n", a.session.Current().ID)
	return nil
}

func (a *app) runAsk(ctx context.Context, args []string) error {
	bot, err := a.chats.Send(ctx, strings.Join(args, " "))
	switch {
	case errors.Is(err, chat.ErrNoSession):
		return errors.New(a.banner.Current().Message)
	case errors.Is(err, chat.ErrEmptyMessage):
		return errors.New("usage: pdfchat ask <message>")
	}

	// a failed request still produced the fallback reply
	fmt.Fprintln(a.out, bot.Text)
	return err
}

func (a *app) runSession() error {
	s := a.session.Current()
	if !s.Active() {
		fmt.Fprintln(a.out, "No PDF loaded")
		return nil
	}
	fmt.Fprintln(a.out, s.ID)
	return nil
}
