// Command expand generates data/exercises.json from the compact authoring
// templates in data/templates.json: sentences become word lists with slot
// suffixes and a shuffled tray, gap sentences are split around their markers.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"

	"satzbau/internal/types"
)

const suffixRunes = ".,;:!?\"'()[]{}–—"

func main() {
	in := flag.String("in", "data/templates.json", "template input file")
	out := flag.String("out", "data/exercises.json", "exercise output file")
	seed := flag.Int64("seed", 0, "shuffle seed (0 = random)")
	flag.Parse()

	data, err := os.ReadFile(*in)
	if err != nil {
		log.Fatalf("read %s: %v", *in, err)
	}
	var tf types.TemplateFile
	if err := json.Unmarshal(data, &tf); err != nil {
		log.Fatalf("parse %s: %v", *in, err)
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewSource(*seed))
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	var ef types.ExerciseFile
	for _, st := range tf.Sentences {
		ex, err := expandSentence(st, rng)
		if err != nil {
			log.Fatalf("template %s: %v", st.ID, err)
		}
		ef.Exercises = append(ef.Exercises, ex)
	}
	for _, gt := range tf.GapFills {
		ex, err := expandGaps(gt)
		if err != nil {
			log.Fatalf("template %s: %v", gt.ID, err)
		}
		ef.Exercises = append(ef.Exercises, ex)
	}

	enc, err := json.MarshalIndent(ef, "", "  ")
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(*out, append(enc, '\n'), 0644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	fmt.Printf("Wrote %d exercises to %s\n", len(ef.Exercises), *out)
}

// expandSentence splits the sentence into slots (one per word, trailing
// punctuation peeled off into the slot suffix) and a shuffled word tray.
func expandSentence(st types.SentenceTemplate, rng *rand.Rand) (types.Exercise, error) {
	if st.Text == "" {
		return types.Exercise{}, fmt.Errorf("empty text")
	}
	raw := strings.Fields(st.Text)

	words := make([]string, len(raw))
	slots := make([]types.SlotSpec, len(raw))
	for i, w := range raw {
		clean := strings.TrimRight(w, suffixRunes)
		suffix := w[len(clean):]
		clean = strings.TrimLeft(clean, suffixRunes)
		if clean == "" {
			return types.Exercise{}, fmt.Errorf("word %d is punctuation only: %q", i, w)
		}
		words[i] = clean
		slots[i] = types.SlotSpec{Index: i, Suffix: suffix}
	}

	tray := make([]string, len(words))
	copy(tray, words)
	rng.Shuffle(len(tray), func(i, j int) {
		tray[i], tray[j] = tray[j], tray[i]
	})

	kind := st.Kind
	if kind == "" {
		kind = "reconstruction"
	}
	return types.Exercise{
		TemplateID: st.ID,
		Kind:       kind,
		Module:     st.Module,
		Level:      st.Level,
		ClauseType: st.ClauseType,
		Prompt:     st.Prompt,
		Words:      tray,
		Verbs:      st.Verbs,
		Slots:      slots,
	}, nil
}

// expandGaps splits the sentence around its {gap_N} markers, filling each
// gap's before text and the final gap's trailing text.
func expandGaps(gt types.GapTemplate) (types.Exercise, error) {
	if len(gt.Gaps) == 0 {
		return types.Exercise{}, fmt.Errorf("no gaps")
	}
	rest := gt.Sentence
	gaps := make([]types.GapSpec, len(gt.Gaps))
	for i, g := range gt.Gaps {
		marker := "{" + g.ID + "}"
		pos := strings.Index(rest, marker)
		if pos < 0 {
			return types.Exercise{}, fmt.Errorf("marker %s not in sentence", marker)
		}
		gaps[i] = types.GapSpec{
			ID:      g.ID,
			Before:  rest[:pos],
			Options: g.Options,
		}
		rest = rest[pos+len(marker):]
	}
	gaps[len(gaps)-1].After = rest

	kind := gt.Kind
	if kind == "" {
		kind = "gap_fill"
	}
	return types.Exercise{
		TemplateID: gt.ID,
		Kind:       kind,
		Module:     gt.Module,
		Level:      gt.Level,
		Prompt:     gt.Prompt,
		Gaps:       gaps,
	}, nil
}
