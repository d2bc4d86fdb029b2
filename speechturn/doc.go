// Package speechturn turns one spoken utterance into a tutoring response.
//
// A turn moves through started, transcribing, interpreting, shaping and
// synthesizing before it ends completed or deferred. Transcription and
// interpretation failures abort the turn. Synthesis failures never do: the
// teaching text is returned with a tts_error instead of audio. When the
// synchronous budget is exhausted before synthesis starts, the turn returns
// a pending audio job and synthesis continues detached from the request.
package speechturn
