package engine

import (
	"errors"
	"reflect"
	"testing"
)

func TestSelfPlay(t *testing.T) {
	opts := SelfPlayOptions{
		Games:         4,
		BlackDepth:    1,
		WhiteDepth:    2,
		RandomOpening: 2,
		Workers:       2,
		Seed:          42,
	}

	var progress []SelfPlayProgress
	res, err := SelfPlay(opts, func(p SelfPlayProgress) {
		progress = append(progress, p)
	})
	if err != nil {
		t.Fatalf("SelfPlay failed: %v", err)
	}

	if len(res.Games) != opts.Games {
		t.Fatalf("played %d games, want %d", len(res.Games), opts.Games)
	}
	if res.BlackWins+res.WhiteWins+res.Draws != opts.Games {
		t.Errorf("results %d/%d/%d do not add up to %d", res.BlackWins, res.WhiteWins, res.Draws, opts.Games)
	}
	if res.Seed != 42 {
		t.Errorf("Seed = %d, want 42", res.Seed)
	}

	for i, g := range res.Games {
		if !g.Final.IsTerminal(g.Final.Current()) {
			t.Errorf("game %d ended before a terminal position", i)
		}
		if g.Margin != g.Final.Count(Black)-g.Final.Count(White) {
			t.Errorf("game %d margin = %d, board says otherwise", i, g.Margin)
		}
		if g.Winner != g.Final.Winner() {
			t.Errorf("game %d winner = %v, want %v", i, g.Winner, g.Final.Winner())
		}
		if len(g.Moves) != g.Final.Turn() {
			t.Errorf("game %d recorded %d moves over %d turns", i, len(g.Moves), g.Final.Turn())
		}
	}

	if len(progress) != opts.Games {
		t.Fatalf("got %d progress callbacks, want %d", len(progress), opts.Games)
	}
	if last := progress[len(progress)-1]; last.GamesCompleted != opts.Games || last.GamesTotal != opts.Games {
		t.Errorf("final progress = %+v", last)
	}
}

func TestSelfPlayDeterministic(t *testing.T) {
	opts := SelfPlayOptions{Games: 3, BlackDepth: 1, WhiteDepth: 1, RandomOpening: 6, Workers: 3, Seed: 7}

	first, err := SelfPlay(opts, nil)
	if err != nil {
		t.Fatalf("SelfPlay failed: %v", err)
	}
	opts.Workers = 1
	second, err := SelfPlay(opts, nil)
	if err != nil {
		t.Fatalf("SelfPlay failed: %v", err)
	}

	if !reflect.DeepEqual(first.Games, second.Games) {
		t.Error("same seed produced different games")
	}
	if first.MeanMargin != second.MeanMargin {
		t.Errorf("MeanMargin %f != %f", first.MeanMargin, second.MeanMargin)
	}
}

func TestSelfPlaySingleGameStdDev(t *testing.T) {
	res, err := SelfPlay(SelfPlayOptions{Games: 1, BlackDepth: 1, WhiteDepth: 1, Seed: 3}, nil)
	if err != nil {
		t.Fatalf("SelfPlay failed: %v", err)
	}
	if res.StdDevMargin != 0 {
		t.Errorf("StdDevMargin = %f, want 0 for a single game", res.StdDevMargin)
	}
	if res.MeanMargin != float64(res.Games[0].Margin) {
		t.Errorf("MeanMargin = %f, want %d", res.MeanMargin, res.Games[0].Margin)
	}
}

func TestSelfPlayInvalidDepth(t *testing.T) {
	_, err := SelfPlay(SelfPlayOptions{Games: 1, BlackDepth: -1}, nil)
	if !errors.Is(err, ErrInvalidDepth) {
		t.Errorf("error = %v, want ErrInvalidDepth", err)
	}
}

func TestSelfPlayResolvedOptions(t *testing.T) {
	tests := []struct {
		name string
		opts SelfPlayOptions
		want SelfPlayOptions // zero Seed means any non-zero seed
	}{
		{
			name: "explicit",
			opts: SelfPlayOptions{Games: 2, BlackDepth: 1, WhiteDepth: 2, RandomOpening: 4, Workers: 2, Seed: 11},
			want: SelfPlayOptions{Games: 2, BlackDepth: 1, WhiteDepth: 2, RandomOpening: 4, Workers: 2, Seed: 11},
		},
		{
			name: "workers capped by games",
			opts: SelfPlayOptions{Games: 1, BlackDepth: 1, WhiteDepth: 1, RandomOpening: -3, Workers: 8, Seed: 5},
			want: SelfPlayOptions{Games: 1, BlackDepth: 1, WhiteDepth: 1, RandomOpening: 0, Workers: 1, Seed: 5},
		},
		{
			name: "random seed",
			opts: SelfPlayOptions{Games: 1, BlackDepth: 1, WhiteDepth: 1, Workers: 1},
			want: SelfPlayOptions{Games: 1, BlackDepth: 1, WhiteDepth: 1, Workers: 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := SelfPlay(tc.opts, nil)
			if err != nil {
				t.Fatalf("SelfPlay failed: %v", err)
			}
			got := res.Options
			if tc.want.Seed == 0 {
				if got.Seed == 0 {
					t.Error("Options.Seed was not filled in")
				}
				got.Seed = 0
			}
			if got != tc.want {
				t.Errorf("Options = %+v, want %+v", got, tc.want)
			}
			if res.Options.Seed != res.Seed {
				t.Errorf("Options.Seed = %d, Seed = %d", res.Options.Seed, res.Seed)
			}
		})
	}
}
