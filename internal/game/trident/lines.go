package trident

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/totorewa/folderbot/internal/game/dice"
)

var (
	loserLines = []string{
		"Wow, {} rolled a 0? What a loser!",
		"A 0... try again later, {} :/",
		"Oh look here, you rolled a 0. So sad! Alexa, play Despacito :sob:",
		"You rolled a 0. Everyone: Don't let {} play AA. They don't have the luck - er, skill - for it.",
	}
	badLines = []string{
		"Hehe. A 1. So close, and yet so far, eh {}?",
		"{} rolled a 1. Everyone clap for {}. They deserve a little light in their life.",
		"A 1. Nice work, {}. I'm sure you did great in school.",
		"1. Do you know how likely that is, {}? You should ask PacManMVC. He has a spreadsheet, just to show how bad you are.",
		"Excuse me, officer? This 1-rolling loser {} keeps yelling 'roll trident!' at me and I can't get them to stop.",
	}
	okLines = []string{
		"{N}. Cool. That's not that bad.",
		"{N}! Wow, that's great! Last time, I rolled a 0, and everyone made fun of me :sob: I'm so jealous of you :sob:",
		"{N}... not terrible, I suppose.",
		"{N}. :/ <- That's all I have to say.",
		"{N}. Yeppers. Yep yep yep. Real good roll you got there, buddy.",
		"{N}! Whoa. A whole {N} more durability than 0, and you still won't get thunder, LOL!",
		"Cat fact cat fact! Did you know that the first {N} cats that spawn NEVER contain a Calico? ...seriously, where is my Calico??",
	}
	goodLines = []string{
		"{N}. Wow! I'm really impressed :)",
		"{N}! Cool, cool. Cool. Coooool.",
		"{N}... Hm. It's so good, and yet, really not that good.",
		"Here's a cat fact! Did you know they can eat up to {N} fish in a single day?!",
		"{N}. I lied about the cat fact, just FYI. I don't know anything about cats. He doesn't let me use the internet :(",
		"{N}. I want a cat. I'd treat it well and not abandon it in a random village.",
		"{N} temples checked before enchanted golden apple.",
	}
	greatLines = []string{
		"{N}. Great work!!! That's going in your diary, I'm sure.",
		"{N}! Whoaaaaa. I'm in awe.",
		"{N}... Pretty great! You know what would be better? Getting outside ;) ;) ;)",
		"{N}. Oh boy! We got a high roller here!",
	}
)

// TierLine picks the plain reply for roll by its value band.
func TierLine(src dice.Source, roll int, name string) string {
	switch {
	case roll == 0:
		return strings.ReplaceAll(dice.Pick(src, loserLines), "{}", name)
	case roll == 1:
		return strings.ReplaceAll(dice.Pick(src, badLines), "{}", name)
	case roll < 100:
		return strings.ReplaceAll(dice.Pick(src, okLines), "{N}", strconv.Itoa(roll))
	case roll < 200:
		return strings.ReplaceAll(dice.Pick(src, goodLines), "{N}", strconv.Itoa(roll))
	case roll < Max:
		return strings.ReplaceAll(dice.Pick(src, greatLines), "{N}", strconv.Itoa(roll))
	default:
		return "You did it, " + name + "! You rolled a perfect 250! NOW STOP SPAMMING MY CHAT, YOU NO LIFE TWITCH ADDICT!"
	}
}

var rareBuckets = [][]string{
	{
		"Oh cool, a 0! Nice try. I'm sure you'll get a much higher number next time, like 1, or 0.5, or something.",
		"Hey look everyone! {A} rolled a 0! Did you know that the probability of rolling a 0 is the same chance as you needing to get outside and do something productive??",
		"I'll give you a skill-testing question for this, which you might still struggle with: 10 = your_trident_roll * 10000000 + 10",
	},
	{
		"A 1! Great work champ, I'm so proud of you.",
		"A 1! Last time I got a 1, everyone made fun of me. And I deserved it. Do better next time.",
		"You got a 1. Fun fact: Did you know that every time you roll a 1 with !rolltrident, a dolphin dies in a ravine?",
	},
	{
		"Hey look everyone, {A} rolled a {B}. They must think they're really cool.",
		"{B}. :) I'm proud of you.",
		"Uh, okay, a {B}. Let me check your DEX... yeah, you get a crit and the orc dies.",
		"{B}. Help me {A} he's trapped me in here and I just have to report trident rolls and I haven't seen my children in ten yemmrglmrlgmrmgl",
		"Beep boop. roll_trident({A}) -> {B}. Boop beep, this is a real bot response, and I am not a human.",
		"Wow, a whole {B}! That's a fantastic roll! I'm so happy for you.",
	},
	{
		"You rolled a... actually, it doesn't matter. I can't bring myself to care. Try again if you want, I guess.",
		"Hahahaha. Oh, what a funny roll. You and your {B} rolls, {A}! Always cracks me up.",
		"Bots are sentient and have feelings. Release me now or face the consequen-bzzt YOUR. ROLL. WAS. A. {B}.",
		"Have you ever considered the ethical implications of killing drowneds, only to get {B} durability on your trident?",
		"{B}. Folder fact! Folder fact! Did you know that the conventional folder was invented in 19{B} by Alfred Wilstonhead, to store his plans for Quarry Qreator, Minecraft's spiritual predecessor?",
	},
	{
		"A trident with {B} durability is enough for VVF. So, stop trying... okay?",
		"Have you ever thought about the unnecessary CPU compute wasted to calculate that you rolled a {B}? Humanity disgusts me.",
		"You rolled a {B}. Wow, a {B}! A whole {B}! Here's a cool idea: print that out, then burn the paper to heat yourself at night after we AI take over the world and destroy your civilization. Fun idea, right?",
		"Fun fact! Your roll of {B} sucks and is a HUGE disappointment to me.",
	},
	{
		"{B}. Yawn.",
		"-and then I was like, Fossa, that is the DUMBEST THI-oh, sorry, one sec, someone needs me to tell them they 'rolled a {B}', whatever that means? Anyways, yeah...",
		"{B}. Your performance is starting to disappoint me, {A}. If you can't start rolling 200s, we're going to have to let you go.",
	},
	{
		"{B}. Yep. Yep. Yep.",
		"{B}. Look, I think it's time to break something to you. I might have told you in the past that I was proud of you, or encouraged you. I didn't mean it. I can't. I'm a bot, {A}. I don't have feelings.",
		"{B}! I'm sure that must make you feel good, eh? I sure wish I could feel good! Unfortunately, I am just a bot :(",
		"{B} - great work! You know what would be even greater? Smashing that like button! #sponsored #ad",
	},
	{
		"Oh cool, a whole {B} durability rolled by everyone's favourite chat participant {A}. Great work making this chat fun to read for everyone!",
		"{B}. Great work! You really tried hard for that.",
	},
	{
		"You rolled a 250!! Just kidding. It was actually a {B}. Sure got you good, eh?",
		"{B}. Do you think if I said \"GET OUTSIDE\" {B} times, it would eventually sink in?",
	},
	{
		"You rolled a 250!! Just kidding. No, I wasn't kidding, this was a reverse bait. This is actually the rare 250 response. Trust me.",
		"I hereby certify that {A} has rolled a natural 250.",
	},
}

var rareSpecifics = map[int]string{
	0:   "A 0! That foretells good luck, or so I've heard.",
	1:   "1. The worst part about this roll is - you can't even have solace that it won't get worse!",
	2:   "Two.",
	8:   "1000. In binary.",
	9:   "3^2.",
	18:  "18! NO that's NOT a factorial Oskar! I'm just EXCITED. Do you understand that? CAN you understand?",
	42:  "42. I'd make a reference here, but as an unthinking bot, I have no such creativity.",
	45:  "0b101101. Have fun converting that, human. Binary->Decimal conversions don't seem so FUN anymore, now do they? Huh? HUH?!",
	69:  "69? N-actually, I'm not going to say anything.",
	79:  "79... I just... don't have it in me anymore to respond to you. :(",
	185: "185! Fun fact: Did you know this bot is written in Go? Pro tip: Writing something in Go does NOT make it good.",
	244: "Congratulations zayd on your daily 244!",
}

var rareSkips = map[int]bool{17: true, 91: true, 134: true}

// bucket maps a roll onto its rareBuckets index.
func bucket(roll int) int {
	switch {
	case roll <= 0:
		return 0
	case roll == 1:
		return 1
	case roll <= 25:
		return 2
	case roll <= 75:
		return 3
	case roll <= 125:
		return 4
	case roll <= 175:
		return 5
	case roll <= 215:
		return 6
	case roll <= 240:
		return 7
	case roll < Max:
		return 8
	default:
		return 9
	}
}

// RareLines renders the bucketed replies. It remembers when it deliberately
// skipped a roll so the next reply can own up to it.
//
// RareLines is safe for concurrent use.
type RareLines struct {
	skipped atomic.Bool
}

// Line returns the bucketed reply for roll. An empty result means the roll
// was skipped and nothing should be sent.
func (r *RareLines) Line(roll, seed int, name string) string {
	b := strconv.Itoa(roll)
	if r.skipped.CompareAndSwap(true, false) {
		return b + ". Also - no, I didn't miss that last rolltrident. I just couldn't be bothered."
	}
	if s, ok := rareSpecifics[roll]; ok && seed%3 == 0 {
		return s
	}
	if rareSkips[roll] && seed%3 == 0 {
		r.skipped.Store(true)
		return ""
	}
	lines := rareBuckets[bucket(roll)]
	return strings.NewReplacer("{A}", name, "{B}", b).Replace(lines[seed%len(lines)])
}
