// Package classify provides the two pure predicates of the confirmation
// core: is a command risky, and does it mutate shell state. Classification
// is a function of the command string and a fixed table only; it never
// depends on session history or provider responses.
package classify

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/coaxialdolor/termai/internal/domain"
)

// Classifier evaluates command strings against immutable token tables.
// Matching is token-based, not flag-based: any invocation of a listed
// command counts, regardless of flags, to avoid false negatives from
// flag-parsing edge cases.
type Classifier struct {
	risky    map[string]struct{}
	stateful map[string]struct{}
	prefixes map[string]struct{}
	parser   *syntax.Parser
}

// New builds a Classifier from the given tables. The tables are copied;
// later mutation of the argument has no effect.
func New(tables Tables) *Classifier {
	return &Classifier{
		risky:    toSet(tables.Risky),
		stateful: toSet(tables.Stateful),
		prefixes: toSet(tables.PrivilegePrefixes),
		parser:   syntax.NewParser(syntax.Variant(syntax.LangBash)),
	}
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}

// Classify annotates one extracted command string. The returned Command is
// immutable from here on.
func (c *Classifier) Classify(raw string, position int) domain.Command {
	return domain.Command{
		Raw:      raw,
		Position: position,
		Risky:    c.IsRisky(raw),
		Stateful: c.IsStateful(raw),
	}
}

// Batch classifies a whole extraction result, preserving order. Positions
// are 1-based.
func (c *Classifier) Batch(raws []string) domain.CommandBatch {
	batch := domain.CommandBatch{Commands: make([]domain.Command, 0, len(raws))}
	for i, raw := range raws {
		batch.Commands = append(batch.Commands, c.Classify(raw, i+1))
	}
	return batch
}

// IsRisky reports whether any sub-command of cmd has an effective leading
// token in the risky table. A privilege-escalation prefix (sudo, doas) is
// resolved to the wrapped command, but the prefix itself is also a risky
// token, so any sudo invocation is risky.
func (c *Classifier) IsRisky(cmd string) bool {
	for _, call := range c.calls(cmd) {
		if c.anyTokenIn(call, c.risky) {
			return true
		}
	}
	return false
}

// IsStateful reports whether any sub-command of cmd is a shell builtin that
// mutates the invoking shell's own state (directory, environment, aliases).
// A bare variable assignment such as X=1 is stateful: it has no command
// word at all, only an effect on the shell environment.
func (c *Classifier) IsStateful(cmd string) bool {
	for _, call := range c.calls(cmd) {
		if len(call.words) == 0 && call.hasAssign {
			return true
		}
		if c.anyTokenIn(call, c.stateful) {
			return true
		}
	}
	return false
}

// anyTokenIn checks the leading token and, when the leading token is a
// privilege prefix, the effective token behind it.
func (c *Classifier) anyTokenIn(call subCommand, table map[string]struct{}) bool {
	if len(call.words) == 0 {
		return false
	}
	lead := strings.ToLower(call.words[0])
	if _, ok := table[lead]; ok {
		return true
	}
	if _, isPrefix := c.prefixes[lead]; isPrefix {
		if eff := effectiveToken(call.words[1:]); eff != "" {
			_, ok := table[eff]
			return ok
		}
	}
	return false
}

// effectiveToken skips the prefix's own option words (-u user style) and
// returns the first word that looks like a command name.
func effectiveToken(words []string) string {
	skipNext := false
	for _, w := range words {
		if skipNext {
			skipNext = false
			continue
		}
		if strings.HasPrefix(w, "-") {
			// -u and --user consume a separate argument unless inlined
			if w == "-u" || w == "--user" {
				skipNext = true
			}
			continue
		}
		return strings.ToLower(w)
	}
	return ""
}

// subCommand is one simple command inside a possibly compound string.
// Splitting is purely an internal classification aid: the original, unsplit
// string is what gets displayed and executed.
type subCommand struct {
	words     []string
	hasAssign bool
}

// calls splits cmd into its simple commands using a real shell parser,
// falling back to a lexical split on control operators when the string does
// not parse.
func (c *Classifier) calls(cmd string) []subCommand {
	file, err := c.parser.Parse(strings.NewReader(cmd), "")
	if err != nil {
		return lexicalCalls(cmd)
	}

	var calls []subCommand
	syntax.Walk(file, func(node syntax.Node) bool {
		switch n := node.(type) {
		case *syntax.CallExpr:
			calls = append(calls, subCommand{
				words:     literalWords(n.Args),
				hasAssign: len(n.Assigns) > 0,
			})
		case *syntax.DeclClause:
			// bash parses export/readonly/declare as a separate clause
			calls = append(calls, subCommand{
				words:     []string{n.Variant.Value},
				hasAssign: len(n.Args) > 0,
			})
		}
		return true
	})
	if len(calls) == 0 {
		return lexicalCalls(cmd)
	}
	return calls
}

func literalWords(args []*syntax.Word) []string {
	var words []string
	for _, arg := range args {
		if lit := flatLiteral(arg); lit != "" {
			words = append(words, lit)
		}
	}
	return words
}

// flatLiteral renders a word made only of literal parts; words containing
// expansions yield "" and are ignored for token matching.
func flatLiteral(word *syntax.Word) string {
	var sb strings.Builder
	for _, part := range word.Parts {
		lit, ok := part.(*syntax.Lit)
		if !ok {
			return ""
		}
		sb.WriteString(lit.Value)
	}
	return sb.String()
}

var controlOperators = []string{"&&", "||", ";", "|"}

// lexicalCalls is the fallback splitter for strings the shell parser
// rejects. It is quote-blind, which is acceptable: it only ever widens the
// set of tokens inspected, never the string executed.
func lexicalCalls(cmd string) []subCommand {
	segments := []string{cmd}
	for _, op := range controlOperators {
		var next []string
		for _, seg := range segments {
			next = append(next, strings.Split(seg, op)...)
		}
		segments = next
	}

	var calls []subCommand
	for _, seg := range segments {
		fields := strings.Fields(seg)
		if len(fields) == 0 {
			continue
		}
		calls = append(calls, subCommand{words: fields})
	}
	return calls
}
