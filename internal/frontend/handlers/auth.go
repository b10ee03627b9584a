// Package handlers runs the Telnet console: account login, the character
// roster, the creation builder, dice, and story sessions.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/elysium/internal/chronicle"
	"github.com/cory-johannsen/elysium/internal/frontend/telnet"
	"github.com/cory-johannsen/elysium/internal/game/catalog"
	"github.com/cory-johannsen/elysium/internal/game/character"
	"github.com/cory-johannsen/elysium/internal/game/command"
	"github.com/cory-johannsen/elysium/internal/game/creation"
	"github.com/cory-johannsen/elysium/internal/game/dice"
	"github.com/cory-johannsen/elysium/internal/game/story"
	"github.com/cory-johannsen/elysium/internal/narrative"
	"github.com/cory-johannsen/elysium/internal/storage/postgres"
)

// AccountStore defines the account operations the console needs.
type AccountStore interface {
	Create(ctx context.Context, username, password string) (postgres.Account, error)
	Authenticate(ctx context.Context, username, password string) (postgres.Account, error)
}

// Chronicle is the ChronicleService surface the console drives.
// *gmserver.Client satisfies it.
type Chronicle interface {
	ListCatalog(ctx context.Context) (*catalog.Catalog, error)
	StartDraft(ctx context.Context, ownerID int64, resume bool) (chronicle.DraftView, error)
	EditDraft(ctx context.Context, draftID string, edits ...chronicle.Edit) (chronicle.DraftView, error)
	DraftSummary(ctx context.Context, draftID string) (chronicle.DraftView, error)
	ValidateDraft(ctx context.Context, draftID string) (creation.Result, error)
	SubmitDraft(ctx context.Context, draftID string, p character.Profile, acceptWarnings bool) (*character.Character, error)
	GetCharacter(ctx context.Context, id int64) (chronicle.Sheet, error)
	ListCharacters(ctx context.Context, accountID int64) ([]*character.Character, error)
	DeleteCharacter(ctx context.Context, id int64) error
	GenerateStory(ctx context.Context, req narrative.Request, characterID int64) (narrative.Result, error)
	StartStorySession(ctx context.Context, characterID int64, title, content string) (*story.Session, error)
	GetStorySession(ctx context.Context, sessionID int64) (*story.Session, error)
	RollAndContinue(ctx context.Context, sessionID int64, pool, difficulty int) (chronicle.Continuation, error)
}

// DiceRoller rolls a free-form pool expression such as "5d10 vs 2".
type DiceRoller interface {
	RollExpr(expr string) (dice.PoolResult, error)
}

const welcomeBanner = "\r\n" + telnet.Bold + telnet.Red + `
  _____ _           _
 | ____| |_   _ ___(_)_   _ _ __ ___
 |  _| | | | | / __| | | | | '_ ` + "`" + ` _ \
 | |___| | |_| \__ \ | |_| | | | | | |
 |_____|_|\__, |___/_|\__,_|_| |_| |_|
          |___/` + telnet.Reset + "\r\n\r\n" +
	telnet.Italic + "  The night is young. Your blood is not." + telnet.Reset + "\r\n\r\n" +
	"  Type " + telnet.Green + "login <username> <password>" + telnet.Reset + " to connect.\r\n" +
	"  Type " + telnet.Green + "register <username> <password>" + telnet.Reset + " to create an account.\r\n" +
	"  Type " + telnet.Green + "quit" + telnet.Reset + " to disconnect.\r\n"

var (
	lobbyCommands     = command.MustRegistry(command.LobbyCommands())
	chronicleCommands = command.MustRegistry(command.ChronicleCommands())
	builderCommands   = command.MustRegistry(command.BuilderCommands())
)

// Console implements telnet.SessionHandler.
type Console struct {
	accounts  AccountStore
	chronicle Chronicle
	roller    DiceRoller
	logger    *zap.Logger
}

// NewConsole creates a Console.
//
// Precondition: all arguments must be non-nil.
// Postcondition: Returns a Console ready to handle sessions.
func NewConsole(accounts AccountStore, chron Chronicle, roller DiceRoller, logger *zap.Logger) *Console {
	return &Console{accounts: accounts, chronicle: chron, roller: roller, logger: logger}
}

// HandleSession shows the banner and runs the login loop, then the chronicle
// loop once a player logs in.
//
// Postcondition: Returns nil on a clean quit.
func (h *Console) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	start := time.Now()
	addr := conn.RemoteAddr().String()

	if err := conn.Write([]byte(welcomeBanner)); err != nil {
		return fmt.Errorf("sending welcome: %w", err)
	}

	for {
		if ctx.Err() != nil {
			_ = conn.WriteLine(telnet.Colorize(telnet.Yellow, "The sun is rising. Goodbye."))
			return ctx.Err()
		}

		line, err := conn.Prompt(telnet.Colorize(telnet.BrightWhite, "> "))
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		if line == "" {
			continue
		}
		in := command.Parse(line)
		cmd, ok := lobbyCommands.Resolve(in.Command)
		if !ok {
			_ = conn.WriteLine(telnet.Colorf(telnet.Red, "Unknown command: %s. Type 'help' for available commands.", in.Command))
			continue
		}

		switch cmd.Handler {
		case command.HandlerQuit:
			_ = conn.WriteLine(telnet.Colorize(telnet.Cyan, "Goodbye."))
			h.logger.Info("client quit",
				zap.String("remote_addr", addr),
				zap.Duration("session_duration", time.Since(start)),
			)
			return nil

		case command.HandlerLogin:
			acct, ok := h.handleLogin(ctx, conn, in.Args)
			if !ok {
				continue
			}
			h.logger.Info("player logged in",
				zap.String("remote_addr", addr),
				zap.String("username", acct.Username),
			)
			return h.chronicleLoop(ctx, conn, acct)

		case command.HandlerRegister:
			h.handleRegister(ctx, conn, in.Args)

		case command.HandlerHelp:
			_ = conn.WriteLines(RenderHelp("Commands:", lobbyCommands)...)
		}
	}
}

// handleLogin authenticates a player, reporting any failure on conn.
//
// Postcondition: ok is true only for an authenticated account.
func (h *Console) handleLogin(ctx context.Context, conn *telnet.Conn, args []string) (postgres.Account, bool) {
	if len(args) < 2 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: login <username> <password>"))
		return postgres.Account{}, false
	}

	acct, err := h.accounts.Authenticate(ctx, args[0], args[1])
	switch {
	case errors.Is(err, postgres.ErrAccountNotFound):
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Account not found. Use 'register' to create one."))
		return postgres.Account{}, false
	case errors.Is(err, postgres.ErrInvalidCredentials):
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Invalid password."))
		return postgres.Account{}, false
	case err != nil:
		h.logger.Error("authentication error", zap.Error(err))
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "An internal error occurred. Please try again."))
		return postgres.Account{}, false
	}

	_ = conn.WriteLine(telnet.Colorf(telnet.BrightGreen, "Welcome back, %s.", acct.Username))
	return acct, true
}

func (h *Console) handleRegister(ctx context.Context, conn *telnet.Conn, args []string) {
	if len(args) < 2 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: register <username> <password>"))
		return
	}
	username, password := args[0], args[1]
	if len(username) < 3 || len(username) > 32 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Username must be 3-32 characters."))
		return
	}
	if len(password) < 6 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Password must be at least 6 characters."))
		return
	}

	acct, err := h.accounts.Create(ctx, username, password)
	if errors.Is(err, postgres.ErrAccountExists) {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "That username is already taken."))
		return
	}
	if err != nil {
		h.logger.Error("registration error", zap.Error(err))
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "An internal error occurred. Please try again."))
		return
	}
	_ = conn.WriteLine(telnet.Colorf(telnet.BrightGreen, "Account created: %s. You may now 'login'.", acct.Username))
}
