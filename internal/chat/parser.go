// Package chat turns raw Twitch IRC lines into the fields the command tree
// and dispatcher consume.
//
// Parsing never fails loudly: lines that match no known shape are reported
// through the returned kind or ok flag.
package chat

import (
	"regexp"
	"strings"

	"github.com/totorewa/folderbot/internal/commandtree"
)

// Symbol prefixes exclude Unicode letters, marks and digits so that a
// message such as "écrit" is not split into a prefix and a command.
const (
	privmsgPattern = `:(\w*)!\w*@\w*\.tmi\.twitch\.tv PRIVMSG #\w* :\s*(.*)`
	commandPattern = `^(bot |folder |[^\s\pL\pM\pN_]|)\s*(.*?)\s*$`
	editPattern    = `^([^\s\pL\pM\pN_]?)(.*?)\s+(.+)$`
)

// PingLine is the keep-alive the server expects a PONG for.
const PingLine = "PING :tmi.twitch.tv"

// Spelled-out prefixes rewritten to commandtree.DefaultPrefix.
const (
	BotPrefix    = "bot "
	FolderPrefix = "folder "
)

// FrameKind classifies an inbound transport line.
type FrameKind int

const (
	// FrameOther is any line that is neither chat nor a control frame.
	FrameOther FrameKind = iota
	// FramePrivmsg carries a chat message.
	FramePrivmsg
	// FramePing must be answered with a PONG.
	FramePing
	// FrameDisconnect is an empty line, signalling a lost connection.
	FrameDisconnect
)

func (k FrameKind) String() string {
	switch k {
	case FramePrivmsg:
		return "privmsg"
	case FramePing:
		return "ping"
	case FrameDisconnect:
		return "disconnect"
	default:
		return "other"
	}
}

// Frame is the result of unwrapping one transport line.
type Frame struct {
	Kind FrameKind
	// User and Message are set only for FramePrivmsg.
	User    string
	Message string
}

// Command is a decomposed chat message.
type Command struct {
	// Prefix is the normalized trigger: "bot " and "folder " become "!".
	Prefix string
	// Text is the command name followed by its arguments, trimmed.
	Text string
}

// EditArgs are the parts of an insert/edit request such as "?hello hi there".
type EditArgs struct {
	Prefix   string
	Name     string
	Response string
}

// Parser owns the compiled expressions. A Parser is immutable and safe for
// concurrent use.
type Parser struct {
	privmsg *regexp.Regexp
	command *regexp.Regexp
	edit    *regexp.Regexp
}

// NewParser compiles the message expressions.
//
// Postcondition: Returns a ready Parser.
func NewParser() *Parser {
	return &Parser{
		privmsg: regexp.MustCompile(privmsgPattern),
		command: regexp.MustCompile(commandPattern),
		edit:    regexp.MustCompile(editPattern),
	}
}

// ParseFrame classifies line. Chat frames win over control frames.
//
// Postcondition: For FramePrivmsg, User and Message hold the captured fields.
func (p *Parser) ParseFrame(line string) Frame {
	if m := p.privmsg.FindStringSubmatch(line); m != nil {
		return Frame{Kind: FramePrivmsg, User: m[1], Message: m[2]}
	}
	switch strings.TrimSpace(line) {
	case "":
		return Frame{Kind: FrameDisconnect}
	case PingLine:
		return Frame{Kind: FramePing}
	default:
		return Frame{Kind: FrameOther}
	}
}

// Decompose splits a chat message into its prefix and command text.
//
// Postcondition: ok is false only if the message matches no shape; the
// expression accepts an empty prefix so this does not happen for valid UTF-8.
func (p *Parser) Decompose(message string) (Command, bool) {
	m := p.command.FindStringSubmatch(message)
	if m == nil {
		return Command{}, false
	}
	return Command{Prefix: NormalizePrefix(m[1]), Text: m[2]}, true
}

// ParseEditArgs splits the arguments of an insert/edit request.
//
// Postcondition: ok is false when args has no whitespace-separated response.
// An empty Prefix means the caller should use the default.
func (p *Parser) ParseEditArgs(args string) (EditArgs, bool) {
	m := p.edit.FindStringSubmatch(args)
	if m == nil {
		return EditArgs{}, false
	}
	return EditArgs{Prefix: m[1], Name: m[2], Response: m[3]}, true
}

// NormalizePrefix maps the spelled-out prefixes to the default symbol.
func NormalizePrefix(prefix string) string {
	if prefix == BotPrefix || prefix == FolderPrefix {
		return commandtree.DefaultPrefix
	}
	return prefix
}

// PrefixMatches reports whether a message carrying prefix may invoke a node
// configured with want. A configured "^" also accepts an empty prefix.
func PrefixMatches(prefix, want string) bool {
	return prefix == want || (prefix == "" && want == commandtree.BarePrefix)
}
