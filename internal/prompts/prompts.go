package prompts

// ============================================================================
// Meme Selection Prompt
// ============================================================================

// MemeSelectionTemplate is the single-turn prompt for picking a meme caption.
// Placeholders, in order: history lines, user message, candidate captions.
const MemeSelectionTemplate = `TASK: You are a Meme Selection Engine.

CONTEXT: The user is chatting with you and you must reply with a meme.
The "LIST OF VALID OUTPUTS" below holds the captions (alt text) of every meme you have.
Most of them are written in Traditional Chinese.

HISTORY:
%s

INPUT User Message (language varies): "%s"

INSTRUCTION:
1. Work out the sentiment or intent of the User Message, taking the history into account.
2. If the message is not in Chinese (e.g. "I am hungry"), find the equivalent Chinese sentiment (e.g. "肚子餓").
3. Pick the caption from the LIST OF VALID OUTPUTS that best fits that sentiment.
4. CRITICAL: Output the EXACT caption string as listed. Do not translate it, do not add quotes, prefixes or explanations.

LIST OF VALID OUTPUTS:
%s

BEST MATCHING CAPTION (exact string from the list):`

// Role labels used for history lines.
const (
	UserLabel      = "User"
	AssistantLabel = "Bot"
	UnknownLabel   = "Unknown"
)
