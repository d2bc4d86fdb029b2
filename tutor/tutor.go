// Package tutor answers typed chat messages with a short Chinese reply and
// teaching notes. Replies are templated from the first word of the message,
// so the endpoint works without any model backend.
package tutor

import "strings"

// Levels accepted by Respond.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
)

// DefaultTopic is used when the message has no usable word.
const DefaultTopic = "日常生活"

// KeyPoint is one phrase worth learning from the reply.
type KeyPoint struct {
	Phrase  string `json:"phrase"`
	Pinyin  string `json:"pinyin"`
	Meaning string `json:"meaning"`
}

// Teaching explains the reply.
type Teaching struct {
	Translation  string     `json:"translation"`
	Pinyin       string     `json:"pinyin"`
	KeyPoints    []KeyPoint `json:"key_points"`
	Alternatives []string   `json:"alternatives"`
	FollowUp     string     `json:"follow_up"`
}

// Response is the tutor's answer to one message.
type Response struct {
	Reply    string   `json:"reply"`
	Teaching Teaching `json:"teaching"`
}

// Respond builds the reply for message at level. Unknown levels are treated
// as beginner. When the learner already writes Chinese the reply says
// "我们也可以" instead of "我们可以".
func Respond(message, level string) Response {
	message = strings.TrimSpace(message)
	topic := Topic(message)

	var resp Response
	if level == LevelIntermediate {
		resp = intermediate(topic)
	} else {
		resp = beginner(topic)
	}
	if ContainsChinese(message) {
		resp.Reply = strings.ReplaceAll(resp.Reply, "我们可以", "我们也可以")
	}
	return resp
}

// Topic returns the first word of message, lowercased, with surrounding
// punctuation removed.
func Topic(message string) string {
	for _, word := range strings.Fields(message) {
		if w := strings.Trim(word, ".,!? "); w != "" {
			return strings.ToLower(w)
		}
	}
	return DefaultTopic
}

// ContainsChinese reports whether s has a CJK unified ideograph.
func ContainsChinese(s string) bool {
	for _, r := range s {
		if r >= '一' && r <= '鿿' {
			return true
		}
	}
	return false
}

func beginner(topic string) Response {
	return Response{
		Reply: "你好！我们可以聊聊" + topic + "。你今天怎么样？",
		Teaching: Teaching{
			Translation: "Hi! We can talk about " + topic + ". How are you today?",
			Pinyin:      "Nǐ hǎo! Wǒmen kěyǐ liáo liáo " + topic + "。 Nǐ jīntiān zěnme yàng?",
			KeyPoints: []KeyPoint{
				{Phrase: "你好", Pinyin: "Nǐ hǎo", Meaning: "Hello"},
				{Phrase: "我们可以", Pinyin: "Wǒmen kěyǐ", Meaning: "We can"},
				{Phrase: "怎么样", Pinyin: "Zěnme yàng", Meaning: "How (is it)"},
			},
			Alternatives: []string{"我们聊点别的吧。", "你想聊什么？"},
			FollowUp:     "用中文回答：你今天感觉如何？",
		},
	}
}

func intermediate(topic string) Response {
	return Response{
		Reply: "明白了。我们可以深入聊聊" + topic + "，你最感兴趣的部分是什么？",
		Teaching: Teaching{
			Translation: "Got it. We can talk more in depth about " + topic + ". Which part interests you most?",
			Pinyin:      "Míngbai le. Wǒmen kěyǐ shēnrù liáo liáo " + topic + "，nǐ zuì gǎn xìngqù de bùfen shì shénme?",
			KeyPoints: []KeyPoint{
				{Phrase: "明白了", Pinyin: "Míngbai le", Meaning: "Got it"},
				{Phrase: "深入", Pinyin: "Shēnrù", Meaning: "In depth"},
				{Phrase: "感兴趣", Pinyin: "Gǎn xìngqù", Meaning: "Interested"},
			},
			Alternatives: []string{"我们换个话题吧。", "你想先从哪里开始？"},
			FollowUp:     "试着用中文描述你最感兴趣的一点。",
		},
	}
}
