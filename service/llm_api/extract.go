package llmApi

import "google.golang.org/genai"

// ExtractText returns the generated text of resp. It tries the SDK's Text
// accessor, then the first non-thought part of the first candidate, and
// otherwise yields "". It never fails.
func ExtractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	if text := directText(resp); text != "" {
		return text
	}
	return firstPartText(resp)
}

// directText calls resp.Text() only when the first candidate has no nil
// entries, since the accessor dereferences them unchecked.
func directText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil {
			return ""
		}
	}
	return resp.Text()
}

// firstPartText returns the text of the first answer part of the first
// candidate. Thought parts are the model's reasoning, not its answer.
func firstPartText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}
	for _, p := range cand.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		return p.Text
	}
	return ""
}
