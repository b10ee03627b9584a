package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/elysium/internal/frontend/telnet"
	"github.com/cory-johannsen/elysium/internal/game/command"
	"github.com/cory-johannsen/elysium/internal/narrative"
	"github.com/cory-johannsen/elysium/internal/storage/postgres"
)

// chronicleLoop runs the logged-in command loop until quit or ctx ends.
func (h *Console) chronicleLoop(ctx context.Context, conn *telnet.Conn, acct postgres.Account) error {
	_ = conn.WriteLine("Type " + telnet.Colorize(telnet.Green, "help") + " for commands.")
	for {
		if ctx.Err() != nil {
			_ = conn.WriteLine(telnet.Colorize(telnet.Yellow, "The sun is rising. Goodbye."))
			return ctx.Err()
		}
		line, err := conn.Prompt(telnet.Colorf(telnet.BrightRed, "%s> ", acct.Username))
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		if line == "" {
			continue
		}
		in := command.Parse(line)
		cmd, ok := chronicleCommands.Resolve(in.Command)
		if !ok {
			_ = conn.WriteLine(telnet.Colorf(telnet.Red, "Unknown command: %s. Type 'help' for available commands.", in.Command))
			continue
		}
		args := in.Args

		switch cmd.Handler {
		case command.HandlerQuit:
			_ = conn.WriteLine(telnet.Colorize(telnet.Cyan, "Goodbye."))
			return nil
		case command.HandlerHelp:
			_ = conn.WriteLines(RenderHelp("Commands:", chronicleCommands)...)
		case command.HandlerCharacters:
			h.listCharacters(ctx, conn, acct, len(args) > 0 && args[0] == "all")
		case command.HandlerShow:
			h.showCharacter(ctx, conn, acct, args)
		case command.HandlerCreate:
			if err := h.creationFlow(ctx, conn, acct); err != nil {
				return err
			}
		case command.HandlerDelete:
			h.deleteCharacter(ctx, conn, acct, args)
		case command.HandlerRoll:
			h.roll(conn, args)
		case command.HandlerHook:
			h.hook(ctx, conn, acct, args)
		case command.HandlerStory:
			h.startStory(ctx, conn, acct, in)
		case command.HandlerContinue:
			h.continueStory(ctx, conn, acct, args)
		}
	}
}

func (h *Console) listCharacters(ctx context.Context, conn *telnet.Conn, acct postgres.Account, all bool) {
	owner := acct.ID
	if all {
		if !postgres.CanManageCatalog(acct.Role) {
			_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Only storytellers may list every character."))
			return
		}
		owner = 0
	}
	chars, err := h.chronicle.ListCharacters(ctx, owner)
	if err != nil {
		h.reportError(conn, "listing characters", err)
		return
	}
	if len(chars) == 0 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Yellow, "No characters yet. Type 'create' to make one."))
		return
	}
	lines := make([]string, 0, len(chars))
	for _, c := range chars {
		lines = append(lines, RenderCharacterLine(c))
	}
	_ = conn.WriteLines(lines...)
}

// ownedCharacter parses args[0] as a character id and checks the account
// may see it. Storytellers may see any character.
func (h *Console) ownedCharacter(ctx context.Context, conn *telnet.Conn, acct postgres.Account, args []string, usage string) (int64, bool) {
	if len(args) < 1 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: "+usage))
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || id <= 0 {
		_ = conn.WriteLine(telnet.Colorf(telnet.Red, "Not a character id: %s", args[0]))
		return 0, false
	}
	if !h.mayAccess(ctx, conn, acct, id, "character not found") {
		return 0, false
	}
	return id, true
}

// mayAccess reports whether acct may see character id, writing missing to
// conn when it may not.
func (h *Console) mayAccess(ctx context.Context, conn *telnet.Conn, acct postgres.Account, id int64, missing string) bool {
	sheet, err := h.chronicle.GetCharacter(ctx, id)
	if err != nil {
		h.reportError(conn, "loading character", err)
		return false
	}
	if sheet.Character.AccountID != acct.ID && !postgres.CanManageCatalog(acct.Role) {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, missing))
		return false
	}
	return true
}

func (h *Console) showCharacter(ctx context.Context, conn *telnet.Conn, acct postgres.Account, args []string) {
	id, ok := h.ownedCharacter(ctx, conn, acct, args, "show <id>")
	if !ok {
		return
	}
	sheet, err := h.chronicle.GetCharacter(ctx, id)
	if err != nil {
		h.reportError(conn, "loading character", err)
		return
	}
	_ = conn.Write([]byte(RenderSheet(sheet)))
}

func (h *Console) deleteCharacter(ctx context.Context, conn *telnet.Conn, acct postgres.Account, args []string) {
	id, ok := h.ownedCharacter(ctx, conn, acct, args, "delete <id>")
	if !ok {
		return
	}
	answer, err := conn.Prompt(telnet.Colorf(telnet.Yellow, "Delete character #%d for good? [y/N] ", id))
	if err != nil || !isYes(answer) {
		_ = conn.WriteLine("Kept.")
		return
	}
	if err := h.chronicle.DeleteCharacter(ctx, id); err != nil {
		h.reportError(conn, "deleting character", err)
		return
	}
	h.logger.Info("character deleted", zap.Int64("character_id", id), zap.String("username", acct.Username))
	_ = conn.WriteLine(telnet.Colorf(telnet.Green, "Character #%d is gone.", id))
}

func (h *Console) roll(conn *telnet.Conn, args []string) {
	if len(args) == 0 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: roll <pool> [difficulty]"))
		return
	}
	res, err := h.roller.RollExpr(strings.Join(args, " "))
	if err != nil {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, err.Error()))
		return
	}
	_ = conn.WriteLine(RenderRoll(res))
}

func (h *Console) hook(ctx context.Context, conn *telnet.Conn, acct postgres.Account, args []string) {
	var charID int64
	if len(args) > 0 {
		id, ok := h.ownedCharacter(ctx, conn, acct, args, "hook [id]")
		if !ok {
			return
		}
		charID = id
	}
	_ = conn.WriteLine(telnet.Colorize(telnet.Dim, "The storyteller considers..."))
	res, err := h.chronicle.GenerateStory(ctx, narrative.Request{Type: narrative.DefaultType}, charID)
	if err != nil {
		h.reportError(conn, "generating story", err)
		return
	}
	if !res.Success {
		_ = conn.WriteLine(telnet.Colorf(telnet.Red, "The storyteller is silent: %s", res.Error))
		return
	}
	_ = conn.WriteLine(telnet.Colorize(telnet.White, res.Content))
}

func (h *Console) startStory(ctx context.Context, conn *telnet.Conn, acct postgres.Account, in command.Input) {
	args := in.Args
	if len(args) < 2 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: story <id> <title>"))
		return
	}
	id, ok := h.ownedCharacter(ctx, conn, acct, args, "story <id> <title>")
	if !ok {
		return
	}
	_ = conn.WriteLine(telnet.Colorize(telnet.Dim, "The storyteller considers..."))
	sess, err := h.chronicle.StartStorySession(ctx, id, in.Text(1), "")
	if err != nil {
		h.reportError(conn, "starting story", err)
		return
	}
	_ = conn.WriteLines(
		telnet.Colorf(telnet.BrightYellow, "Session #%d: %s", sess.ID, sess.Title),
		telnet.Colorize(telnet.White, sess.CurrentScene),
	)
}

// continueStory rolls for a session the account owns and shows the next scene.
func (h *Console) continueStory(ctx context.Context, conn *telnet.Conn, acct postgres.Account, args []string) {
	if len(args) < 2 {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: continue <session> <pool> [difficulty]"))
		return
	}
	nums := make([]int64, 0, 3)
	for _, a := range args[:min(len(args), 3)] {
		n, err := strconv.ParseInt(strings.TrimPrefix(a, "#"), 10, 64)
		if err != nil {
			_ = conn.WriteLine(telnet.Colorf(telnet.Red, "Not a number: %s", a))
			return
		}
		nums = append(nums, n)
	}
	difficulty := int64(1)
	if len(nums) == 3 {
		difficulty = nums[2]
	}

	sess, err := h.chronicle.GetStorySession(ctx, nums[0])
	if err != nil {
		h.reportError(conn, "loading story", err)
		return
	}
	if !h.mayAccess(ctx, conn, acct, sess.CharacterID, "story session not found") {
		return
	}

	out, err := h.chronicle.RollAndContinue(ctx, nums[0], int(nums[1]), int(difficulty))
	if err != nil {
		h.reportError(conn, "continuing story", err)
		return
	}
	_ = conn.WriteLine(RenderRoll(out.Roll))
	if !out.Narrative.Success {
		_ = conn.WriteLine(telnet.Colorf(telnet.Red, "The storyteller is silent: %s", out.Narrative.Error))
		return
	}
	_ = conn.WriteLine(telnet.Colorize(telnet.White, out.Narrative.Content))
}

// reportError shows a client-facing message for err, logging anything
// that is not the caller's fault.
func (h *Console) reportError(conn *telnet.Conn, action string, err error) {
	st := status.Convert(err)
	switch st.Code() {
	case codes.NotFound, codes.InvalidArgument, codes.FailedPrecondition:
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, st.Message()))
	case codes.Unavailable:
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "The storyteller is unavailable. Try again later."))
	default:
		h.logger.Error(action, zap.Error(err))
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "An internal error occurred. Please try again."))
	}
}

func isYes(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "y" || s == "yes"
}
