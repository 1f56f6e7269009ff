// Package script builds the TwiML control documents for each state a call
// can be in. Builders are pure: same inputs, same document, no side effects.
package script

import (
	"fmt"
	"strconv"

	"github.com/twilio/twilio-go/twiml"
)

// Webhook paths the scripts point back at. The gather action and the restart
// redirect must match the routes registered by the handler package.
const (
	VoicePath  = "/twilio-voice"
	GatherPath = "/gather"
)

const (
	processingMessage      = "Okay, let me process that."
	processingFallback     = "Something went wrong while processing. Please try again."
	retryMessage           = "Sorry, I didn't catch that. Could you please repeat?"
	noAnswerMessage        = "Sorry, I couldn't generate a response for that."
	anythingElseMessage    = "Did you have another question?"
	apologyRestartMessage  = "Sorry, an error occurred while processing your request. Please try again."
	apologyTerminalMessage = "An internal error occurred. Please hang up and try again."
)

// speechGather opens a speech prompt whose result posts back to the gather path.
func speechGather() *twiml.VoiceGather {
	return &twiml.VoiceGather{
		Input:         "speech",
		Action:        GatherPath,
		SpeechTimeout: "auto",
	}
}

func restartRedirect() *twiml.VoiceRedirect {
	return &twiml.VoiceRedirect{Url: VoicePath}
}

// Greeting welcomes the caller and opens the first speech prompt. If no
// speech is captured the trailing redirect replays the greeting, so silence
// never ends the interaction.
func Greeting(assistantName string) (string, error) {
	return twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{Message: fmt.Sprintf("Welcome to the %s. How can I help you today?", assistantName)},
		speechGather(),
		restartRedirect(),
	})
}

// Processing is the immediate placeholder returned while an utterance task
// runs. The pause keeps the call alive long enough for the live update; if
// the update never arrives, the fallback message and redirect recover the
// caller.
func Processing(pauseSeconds int) (string, error) {
	return twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{Message: processingMessage},
		&twiml.VoicePause{Length: strconv.Itoa(pauseSeconds)},
		&twiml.VoiceSay{Message: processingFallback},
		restartRedirect(),
	})
}

// SpeakAndListen speaks the message verbatim, then opens the next speech
// prompt with a follow-up nudge and a restart redirect.
func SpeakAndListen(message string) (string, error) {
	return twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{Message: message},
		speechGather(),
		&twiml.VoiceSay{Message: anythingElseMessage},
		restartRedirect(),
	})
}

// NoAnswer is the follow-up when the stream produced no answer content.
func NoAnswer() (string, error) {
	return SpeakAndListen(noAnswerMessage)
}

// Retry asks the caller to repeat after empty or failed speech recognition.
func Retry() (string, error) {
	return twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{Message: retryMessage},
		speechGather(),
		restartRedirect(),
	})
}

// ApologizeAndRestart is the convergence point for every task failure: a
// short apology, a brief pause, then a redirect back to the greeting so the
// caller can try again by speaking again.
func ApologizeAndRestart() (string, error) {
	return twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{Message: apologyRestartMessage},
		&twiml.VoicePause{Length: "1"},
		restartRedirect(),
	})
}

// ApologizeAndHangup terminates the call. Used when the webhook event has no
// call identifier: with no identifier there is no way to update the call
// later, so the conversation cannot continue safely.
func ApologizeAndHangup() (string, error) {
	return twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{Message: apologyTerminalMessage},
		&twiml.VoiceHangup{},
	})
}
