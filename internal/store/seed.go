package store

import (
	"context"
	"fmt"
)

// DemoWords is the demo Finnish vocabulary with mixed learning states.
var DemoWords = []Word{
	// Mastered
	{Word: "hei", Definition: "hello, hi", PartOfSpeech: "interjection", Status: "solid"},
	{Word: "kiitos", Definition: "thank you, thanks", PartOfSpeech: "interjection", Status: "solid"},
	{Word: "kyllä", Definition: "yes", PartOfSpeech: "adverb", Status: "solid"},
	{Word: "ei", Definition: "no, not", PartOfSpeech: "adverb", Status: "solid"},
	{Word: "hyvä", Definition: "good", PartOfSpeech: "adjective", Status: "solid"},
	{Word: "päivä", Definition: "day", PartOfSpeech: "noun", Status: "solid"},
	{Word: "vesi", Definition: "water", PartOfSpeech: "noun", Status: "solid"},
	{Word: "ruoka", Definition: "food", PartOfSpeech: "noun", Status: "solid"},

	// Learning
	{Word: "talo", Definition: "house", PartOfSpeech: "noun", Status: "liquid"},
	{Word: "auto", Definition: "car", PartOfSpeech: "noun", Status: "liquid"},
	{Word: "kirja", Definition: "book", PartOfSpeech: "noun", Status: "liquid"},
	{Word: "koulu", Definition: "school", PartOfSpeech: "noun", Status: "liquid"},
	{Word: "työ", Definition: "work, job", PartOfSpeech: "noun", Status: "liquid"},
	{Word: "aika", Definition: "time", PartOfSpeech: "noun", Status: "liquid"},

	// New
	{Word: "opiskella", Definition: "to study", PartOfSpeech: "verb", Status: "ghost"},
	{Word: "puhua", Definition: "to speak, to talk", PartOfSpeech: "verb", Status: "ghost"},
	{Word: "syödä", Definition: "to eat", PartOfSpeech: "verb", Status: "ghost"},
	{Word: "juoda", Definition: "to drink", PartOfSpeech: "verb", Status: "ghost"},
	{Word: "nähdä", Definition: "to see", PartOfSpeech: "verb", Status: "ghost"},
	{Word: "kuulla", Definition: "to hear", PartOfSpeech: "verb", Status: "ghost"},
	{Word: "ystävä", Definition: "friend", PartOfSpeech: "noun", Status: "ghost"},
	{Word: "perhe", Definition: "family", PartOfSpeech: "noun", Status: "ghost"},
}

// DemoRelation links two demo words by spelling.
type DemoRelation struct {
	Source, Target, Type string
}

// DemoRelations connects the demo vocabulary.
var DemoRelations = []DemoRelation{
	{"hei", "kiitos", "context"},
	{"kyllä", "ei", "antonym"},
	{"hyvä", "päivä", "collocation"},
	{"syödä", "ruoka", "usage"},
	{"juoda", "vesi", "usage"},
	{"opiskella", "koulu", "usage"},
	{"opiskella", "kirja", "usage"},
	{"puhua", "kuulla", "related"},
	{"nähdä", "kuulla", "related"},
	{"päivä", "aika", "related"},
	{"työ", "aika", "collocation"},
	{"talo", "perhe", "context"},
	{"ystävä", "perhe", "related"},
	{"auto", "talo", "context"},
	{"hei", "ystävä", "context"},
}

// SeedResult reports what Seed inserted.
type SeedResult struct {
	WordsAdded     int
	WordsExisting  int
	RelationsAdded int
}

// Seed inserts the demo vocabulary for userID. It is idempotent.
func Seed(ctx context.Context, repo WordRepo, userID string) (SeedResult, error) {
	var res SeedResult
	ids := make(map[string]int64, len(DemoWords))
	for _, w := range DemoWords {
		id, created, err := repo.AddWord(ctx, userID, w)
		if err != nil {
			return res, fmt.Errorf("seed words: %w", err)
		}
		ids[w.Word] = id
		if created {
			res.WordsAdded++
		} else {
			res.WordsExisting++
		}
	}
	for _, r := range DemoRelations {
		src, ok1 := ids[r.Source]
		dst, ok2 := ids[r.Target]
		if !ok1 || !ok2 {
			return res, fmt.Errorf("seed relation %s→%s: %w", r.Source, r.Target, ErrWordNotFound)
		}
		if err := repo.AddRelation(ctx, userID, Relation{SourceID: src, TargetID: dst, RelationType: r.Type}); err != nil {
			return res, fmt.Errorf("seed relations: %w", err)
		}
		res.RelationsAdded++
	}
	return res, nil
}
