package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"

	"github.com/lox/liveholdem/internal/ai"
	"github.com/lox/liveholdem/internal/deck"
	"github.com/lox/liveholdem/internal/evaluator"
	"github.com/lox/liveholdem/internal/randutil"
)

type CLI struct {
	Hands      []string `arg:"" help:"Hole cards per player, e.g. 'AcKd' '7h2s'" required:"true"`
	Board      string   `short:"b" help:"Community cards dealt so far (e.g. 'Td7s8h')"`
	Opponents  int      `short:"o" default:"1" help:"Random opponents to simulate when only one hand is given"`
	Iterations int      `short:"i" default:"10000" help:"Number of Monte Carlo iterations"`
	Seed       *int64   `help:"Random seed for reproducible results"`
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	handStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	winStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	tieStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	percentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli)

	seed := time.Now().UnixNano()
	if cli.Seed != nil {
		seed = *cli.Seed
	}
	rng := randutil.New(seed)

	hands, err := parseHands(cli.Hands)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing hands: %v\n", err)
		ctx.Exit(1)
	}

	var board []deck.Card
	if cli.Board != "" {
		board, err = deck.ParseCards(cli.Board)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing board: %v\n", err)
			ctx.Exit(1)
		}
		if len(board) > 5 {
			fmt.Fprintln(os.Stderr, "Board cannot have more than 5 cards")
			ctx.Exit(1)
		}
	}

	if err := validateNoDuplicates(hands, board); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}

	start := time.Now()
	if len(hands) == 1 {
		equity := ai.EstimateWin(hands[0], board, cli.Opponents, cli.Iterations, rng)
		displaySingle(hands[0], board, equity, cli.Opponents, cli.Iterations, time.Since(start))
		return
	}

	results := simulate(hands, board, cli.Iterations, rng)
	displayResults(results, board, cli.Iterations, time.Since(start))
}

type playerResult struct {
	Hand []deck.Card
	Wins int
	Ties int
}

func parseHands(args []string) ([][]deck.Card, error) {
	hands := make([][]deck.Card, 0, len(args))
	for i, arg := range args {
		hand, err := deck.ParseCards(strings.ReplaceAll(strings.TrimSpace(arg), " ", ""))
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i+1, err)
		}
		if len(hand) != 2 {
			return nil, fmt.Errorf("hand %d: must contain exactly 2 cards, got %d", i+1, len(hand))
		}
		hands = append(hands, hand)
	}
	return hands, nil
}

func validateNoDuplicates(hands [][]deck.Card, board []deck.Card) error {
	seen := make(map[deck.Card]bool)
	for _, card := range board {
		if seen[card] {
			return fmt.Errorf("duplicate card: %s", card)
		}
		seen[card] = true
	}
	for i, hand := range hands {
		for _, card := range hand {
			if seen[card] {
				return fmt.Errorf("duplicate card in hand %d: %s", i+1, card)
			}
			seen[card] = true
		}
	}
	return nil
}

// simulate runs head-to-head equity for known hands, completing the board
// at random each iteration.
func simulate(hands [][]deck.Card, board []deck.Card, iterations int, rng *rand.Rand) []playerResult {
	results := make([]playerResult, len(hands))
	for i := range results {
		results[i].Hand = hands[i]
	}

	used := make([]deck.Card, 0, len(board)+2*len(hands))
	used = append(used, board...)
	for _, hand := range hands {
		used = append(used, hand...)
	}
	remaining := deck.Without(used)
	need := 5 - len(board)

	ranks := make([]evaluator.HandRank, len(hands))
	for iter := 0; iter < iterations; iter++ {
		for i := 0; i < need; i++ {
			j := i + rng.Intn(len(remaining)-i)
			remaining[i], remaining[j] = remaining[j], remaining[i]
		}
		fullBoard := append(append(make([]deck.Card, 0, 5), board...), remaining[:need]...)

		for i, hand := range hands {
			ranks[i] = evaluator.Evaluate(append(append(make([]deck.Card, 0, 7), hand...), fullBoard...))
		}

		best := 0
		winners := 1
		for i := 1; i < len(ranks); i++ {
			switch cmp := evaluator.Compare(ranks[i], ranks[best]); {
			case cmp > 0:
				best = i
				winners = 1
			case cmp == 0:
				winners++
			}
		}
		for i := range ranks {
			if evaluator.Compare(ranks[i], ranks[best]) == 0 {
				if winners > 1 {
					results[i].Ties++
				} else {
					results[i].Wins++
				}
			}
		}
	}
	return results
}

func displaySingle(hand, board []deck.Card, equity float64, opponents, iterations int, elapsed time.Duration) {
	fmt.Println(headerStyle.Render(fmt.Sprintf("Equity vs %d random opponent(s)", opponents)))
	if len(board) > 0 {
		fmt.Printf("Board: %s\n", handStyle.Render(strings.Join(deck.Strings(board), " ")))
	}
	fmt.Printf("%s: %s\n",
		handStyle.Render(strings.Join(deck.Strings(hand), " ")),
		winStyle.Render(fmt.Sprintf("%.1f%%", equity*100)))
	fmt.Printf("\n%d iterations in %v\n", iterations, elapsed.Round(time.Millisecond))
}

func displayResults(results []playerResult, board []deck.Card, iterations int, elapsed time.Duration) {
	if len(board) > 0 {
		fmt.Printf("Board: %s\n\n", handStyle.Render(strings.Join(deck.Strings(board), " ")))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		headerStyle.Render("Hand"),
		winStyle.Render("Win"),
		tieStyle.Render("Tie"))

	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			handStyle.Render(strings.Join(deck.Strings(r.Hand), " ")),
			percentStyle.Render(fmt.Sprintf("%.1f%%", 100*float64(r.Wins)/float64(iterations))),
			percentStyle.Render(fmt.Sprintf("%.1f%%", 100*float64(r.Ties)/float64(iterations))))
	}
	_ = w.Flush()

	fmt.Printf("\n%d iterations in %v\n", iterations, elapsed.Round(time.Millisecond))
}
