package ai

import "fmt"

// LonaContext is the product background injected into reply drafts.
const LonaContext = `
Lona (https://lona.agency) is an AI-powered trading alerts platform that helps traders:

**Key Features:**
- Real-time stock price monitoring with customizable alerts
- 13 distinct alert condition types (price crossings, thresholds, ranges, movement tracking)
- Multi-channel notifications (Email, Slack, Telegram)
- Single trigger vs recurring alert modes
- Clean, intuitive dashboard for managing alerts

**Target Audience:**
- Day traders and swing traders
- Finance enthusiasts monitoring portfolios
- Anyone who wants real-time stock/crypto price notifications
- Developers building trading tools

**Tone & Style:**
- Professional yet approachable
- Direct and helpful
- Focused on solving real problems
- No hype or overselling

**When to Promote:**
- Posts about missing trading opportunities
- Discussions about portfolio tracking tools
- Questions about price alert systems
- Complaints about existing alert platforms
- General trading automation discussions
`

func sentimentPrompt(postContent string) string {
	return fmt.Sprintf(`Analyze this Reddit post from a finance/trading subreddit and determine if it's an opportunity to mention Lona.

Post Content:
"""
%s
"""

Classify the sentiment as one of:
- "opportunity": Post is asking about alerts, missing trades, portfolio tracking, or similar problems Lona solves
- "neutral": Finance-related but not directly relevant to Lona's features
- "irrelevant": Not related to finance/trading or Lona's use case

Respond with just one word: opportunity, neutral, or irrelevant.`, postContent)
}

func replyDraftPrompt(postContent, productContext string) string {
	if productContext == "" {
		productContext = LonaContext
	}
	return fmt.Sprintf(`You are helping draft a Reddit reply to promote Lona, an AI-powered trading alerts platform.

%s

Reddit Post:
"""
%s
"""

Instructions:
1. Write a helpful, direct reply (2-3 sentences max)
2. Address the specific problem or question in the post
3. Naturally mention how Lona can help
4. Include a link to https://lona.agency
5. Be genuine and helpful, not salesy
6. Match Reddit's conversational tone

Draft Reply:`, productContext, postContent)
}

func summarizePrompt(postContent string) string {
	return fmt.Sprintf(`Summarize this Reddit post in 1-2 sentences, focusing on the key question or problem:

"""
%s
"""

Summary:`, postContent)
}
