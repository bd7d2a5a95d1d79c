// Package fake produces the synthetic identities seeded into the candidate
// pool. There is no faker dependency here; the corpora below cover the field
// shapes the remote service validates (company emails, 12-character mixed
// passwords, digit-only phones, short sentences).
package fake

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Identity is one synthetic user candidate, with the note fields used by
// the note-extended seed rows.
type Identity struct {
	Name     string
	Email    string
	Password string
	Company  string
	Phone    string

	NoteTitle       string
	NoteDescription string
	NoteCategory    string
}

// Generator is a pluggable source of synthetic identities. Tests substitute
// deterministic implementations.
type Generator interface {
	Identity() Identity
}

// Categories are the note categories the remote service accepts.
var Categories = []string{"Home", "Personal", "Work"}

var firstNames = []string{
	"Amanda", "Bruno", "Carla", "Daniel", "Elisa", "Felipe", "Gabriela",
	"Henrique", "Isabela", "Joao", "Karen", "Lucas", "Mariana", "Nathan",
	"Olivia", "Paulo", "Rafaela", "Sergio", "Tatiana", "Vitor",
}

var lastNames = []string{
	"Almeida", "Barbosa", "Cardoso", "Dias", "Ferreira", "Gomes", "Lima",
	"Martins", "Nascimento", "Oliveira", "Pereira", "Ribeiro", "Santos",
	"Silva", "Souza", "Teixeira",
}

var companyWords = []string{
	"Apex", "Borealis", "Cedar", "Delta", "Evergreen", "Fairview", "Granite",
	"Harbor", "Ironwood", "Juniper", "Keystone", "Lakeshore", "Meridian",
	"Northgate", "Oakland", "Pinnacle", "Quarry", "Redwood", "Summit",
	"Tidewater",
}

var companySuffixes = []string{"Group", "Labs", "Systems", "Partners", "Industries", "Logistics"}

var sentenceWords = []string{
	"quick", "market", "grocery", "meeting", "review", "draft", "garden",
	"repair", "budget", "travel", "weekly", "project", "office", "kitchen",
	"report", "morning", "errand", "payment", "backup", "update",
}

const (
	passwordUpper  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	passwordLower  = "abcdefghijkmnpqrstuvwxyz"
	passwordDigits = "23456789"
	passwordLength = 12
)

// Rand generates identities from a rand.Rand source. The zero value is not
// usable; construct with NewRand.
type Rand struct {
	rng *rand.Rand
}

// NewRand returns a generator backed by the given source. Pass a fixed seed
// source for reproducible pools.
func NewRand(src rand.Source) *Rand {
	return &Rand{rng: rand.New(src)}
}

// New returns a generator seeded from the global random source.
func New() *Rand {
	return &Rand{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// Identity returns one synthetic candidate. Emails embed a random numeric
// suffix so collisions across a 250-row pool stay rare; the seed store still
// enforces uniqueness and retries on collision.
func (r *Rand) Identity() Identity {
	first := pick(r.rng, firstNames)
	last := pick(r.rng, lastNames)
	companyWord := pick(r.rng, companyWords)

	return Identity{
		Name:     first + " " + last,
		Email:    r.email(first, last, companyWord),
		Password: r.password(),
		Company:  companyWord + " " + pick(r.rng, companySuffixes),
		Phone:    r.digits(12),

		NoteTitle:       r.sentence(2),
		NoteDescription: r.sentence(3),
		NoteCategory:    pick(r.rng, Categories),
	}
}

func (r *Rand) email(first, last, companyWord string) string {
	local := strings.ToLower(first) + "." + strings.ToLower(last)
	domain := strings.ToLower(companyWord)
	return fmt.Sprintf("%s%d@%s.example.com", local, r.rng.IntN(100000), domain)
}

// password builds a 12-character password with at least one upper-case
// letter, one lower-case letter and one digit, no special characters.
func (r *Rand) password() string {
	chars := make([]byte, passwordLength)
	chars[0] = passwordUpper[r.rng.IntN(len(passwordUpper))]
	chars[1] = passwordLower[r.rng.IntN(len(passwordLower))]
	chars[2] = passwordDigits[r.rng.IntN(len(passwordDigits))]
	all := passwordUpper + passwordLower + passwordDigits
	for i := 3; i < passwordLength; i++ {
		chars[i] = all[r.rng.IntN(len(all))]
	}
	r.rng.Shuffle(passwordLength, func(i, j int) {
		chars[i], chars[j] = chars[j], chars[i]
	})
	return string(chars)
}

func (r *Rand) digits(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteByte(byte('0' + r.rng.IntN(10)))
	}
	return sb.String()
}

func (r *Rand) sentence(words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = pick(r.rng, sentenceWords)
	}
	s := strings.Join(parts, " ") + "."
	return strings.ToUpper(s[:1]) + s[1:]
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}
