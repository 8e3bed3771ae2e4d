package irc

import "strings"

// Message is one outbound protocol line, CRLF terminated.
type Message string

// String returns the line without its terminator.
func (m Message) String() string {
	return strings.TrimSuffix(string(m), "\r\n")
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func line(s string) Message {
	return Message(lineBreaks.Replace(s) + "\r\n")
}

// Pass authenticates with an OAuth secret.
func Pass(secret string) Message { return line("PASS " + secret) }

// Nick sets the bot account name.
func Nick(nick string) Message { return line("NICK " + nick) }

// Join enters the channel, given without its leading '#'.
func Join(channel string) Message { return line("JOIN #" + channel) }

// Privmsg says text in channel.
func Privmsg(channel, text string) Message {
	return line("PRIVMSG #" + channel + " :" + text)
}

// Pong answers the server keep-alive.
func Pong() Message { return "PONG :tmi.twitch.tv\r\n" }

// Raw sends text as a protocol line of its own.
func Raw(text string) Message { return line(text) }
