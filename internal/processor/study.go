package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"codeberg.org/snonux/wordhover/internal/study"
)

// Study runs an interactive study session over deckID. Each card is shown
// front first; the user reveals it with enter and answers k (known),
// u (unknown) or q (finish).
func (p *Processor) Study(ctx context.Context, deckID string) error {
	if _, err := p.loadDeck(ctx, deckID); err != nil {
		return err
	}

	session := study.NewSession(p.store, p.log)
	if err := session.Start(ctx, deckID); err != nil {
		return err
	}

	_, total := session.Progress()
	fmt.Fprintf(p.out, "Studying %s (%d cards). Answer k=known, u=unknown, q=finish.\n", session.DeckName(), total)

	for {
		switch session.State() {
		case study.StateInRound:
			quit, err := p.studyCard(ctx, session)
			if err != nil {
				return err
			}
			if quit {
				return p.finishStudy(ctx, session)
			}

		case study.StateRoundComplete:
			st := session.Stats()
			fmt.Fprintf(p.out, "\nRound %d complete: %d/%d known (%d%%)\n",
				session.Round(), st.Known, st.Total, st.Percentage)

			answer, err := p.prompt(fmt.Sprintf("Continue with %d unknown cards? [y/n]: ", st.Unknown))
			if err != nil {
				return p.finishStudy(ctx, session)
			}
			if answer != "y" && answer != "yes" {
				return p.finishStudy(ctx, session)
			}
			if err := session.Continue(ctx); err != nil {
				return err
			}
			if session.Restarted() {
				fmt.Fprintln(p.out, "No unknown cards left, starting over with the full deck.")
			}

		default:
			st := session.Stats()
			fmt.Fprintf(p.out, "\nAll %d cards known! Progress has been reset for the next session.\n", st.Total)
			return nil
		}
	}
}

func (p *Processor) studyCard(ctx context.Context, session *study.Session) (bool, error) {
	card, _ := session.Current()
	pos, total := session.Progress()

	fmt.Fprintf(p.out, "\n[Round %d, %d/%d] %s\n", session.Round(), pos+1, total, card.Original)
	answer, err := p.prompt("Press enter to reveal: ")
	if err != nil || answer == "q" {
		return true, nil
	}

	fmt.Fprintf(p.out, "  %s\n", card.Translation)
	if card.Hiragana != "" {
		fmt.Fprintf(p.out, "  %s\n", card.Hiragana)
	}

	for {
		answer, err := p.prompt("Known? [k/u/q]: ")
		if err != nil {
			return true, nil
		}
		switch answer {
		case "k", "known":
			return false, session.MarkAndAdvance(ctx, true)
		case "u", "unknown":
			return false, session.MarkAndAdvance(ctx, false)
		case "q", "quit":
			return true, nil
		}
	}
}

func (p *Processor) finishStudy(ctx context.Context, session *study.Session) error {
	st, err := session.Finish(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "\nSession finished: %d/%d known (%d%%)\n", st.Known, st.Total, st.Percentage)
	return nil
}

// prompt prints msg and reads one trimmed, lower-cased line. io.EOF is
// returned once input is exhausted.
func (p *Processor) prompt(msg string) (string, error) {
	fmt.Fprint(p.out, msg)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}
