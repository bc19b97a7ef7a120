package summarize

import (
	"fmt"
	"strings"

	"twitterai/pkg/models"
)

// promptTemplate frames the model as a tech-media editor and asks for a
// single Chinese sentence of at most 50 characters.
const promptTemplate = `你是一位专业的科技媒体编辑，专注于人工智能、Web3和前沿科技领域。

任务：
请阅读Twitter用户 @%s 今日发布的所有推文，生成一句话中文摘要（不超过50字）。

要求：
1. 用一句话概括该用户今日推文的核心主题或最重要的信息
2. 必须使用中文
3. 聚焦于实质性内容（技术进展、产品发布、观点洞察等）
4. 忽略纯粹的互动性内容（点赞、转发无内容的推文）
5. 如果推文内容零散无主题，概括最值得关注的1-2条
6. 语言风格：简洁、专业、信息密度高

推文内容：
%s

请直接输出一句话摘要，不要包含"摘要："等前缀。`

// BuildPrompt renders the deterministic summarization prompt: each tweet is
// enumerated with its timestamp and engagement counts so the model can
// weigh substance against noise.
func BuildPrompt(tweets []models.Tweet, username string) string {
	blocks := make([]string, 0, len(tweets))
	for i, tweet := range tweets {
		blocks = append(blocks, fmt.Sprintf(
			"推文 %d (发布于 %s):\n%s\n互动数据: %d 赞, %d 转发, %d 回复",
			i+1, tweet.CreatedAt, tweet.Text, tweet.Likes, tweet.Retweets, tweet.Replies))
	}

	return fmt.Sprintf(promptTemplate, username, strings.Join(blocks, "\n\n"))
}
