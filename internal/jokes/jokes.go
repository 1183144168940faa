package jokes

import "math/rand/v2"

// Teller serves one-liners from a built-in corpus, no network involved.
type Teller struct {
	pick func(n int) int
}

func NewTeller() *Teller {
	return &Teller{pick: rand.IntN}
}

func (t *Teller) Joke() string {
	return corpus[t.pick(len(corpus))]
}

var corpus = []string{
	"Why do programmers prefer dark mode? Because light attracts bugs.",
	"There are only 10 kinds of people in this world: those who know binary and those who don't.",
	"A SQL query walks into a bar, walks up to two tables and asks: can I join you?",
	"Why do Java developers wear glasses? Because they don't C sharp.",
	"I told my computer I needed a break, and now it won't stop sending me KitKat ads.",
	"How many programmers does it take to change a light bulb? None, that's a hardware problem.",
	"A programmer's spouse says: while you're at the store, get some milk. The programmer never returns.",
	"Why did the developer go broke? Because he used up all his cache.",
	"To understand what recursion is, you must first understand recursion.",
	"There's no place like 127.0.0.1.",
	"I would tell you a UDP joke, but you might not get it.",
	"Debugging: being the detective in a crime movie where you are also the murderer.",
	"The best thing about a boolean is that even if you are wrong, you are only off by a bit.",
	"Why was the function sad after a party? It didn't get called.",
	"Real programmers count from zero.",
}
