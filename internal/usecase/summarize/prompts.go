package summarize

import (
	"fmt"
	"unicode/utf8"

	"github.com/qj0r9j0vc2/paper-bridge/internal/domain/entity"
)

// maxPromptChars bounds the interpolated prompt; the appended paper
// text is truncated, never the template itself.
const maxPromptChars = 900_000

const promptShort = `당신은 생물학 논문 요약 전문가입니다. 아래 논문 내용을 한글로 간결하게 요약해주세요.

중요: Technical term (예: CRISPR-Cas9, phosphorylation, apoptosis, PCR, Western blot 등)은 반드시 영어 그대로 유지하세요.

다음 형식으로 요약해주세요:

:bar_chart: *논문 분석 결과*
*[논문 원제목 - 영어 그대로]*

:bulb: *한줄 핵심 (The Hook)*
[이 논문의 핵심을 한 문장으로 요약]

:dart: *추천 대상*
[이 논문을 읽으면 좋을 대상 - 쉼표로 구분]

*1. 연구 목적 (Problem & Goal)*
• [연구 배경과 목적을 2-3개 bullet point로]

*2. 주요 발견 (Key Results)*
• [핵심 발견사항 3개 이내]

` + "`#Keyword1` `#Keyword2` `#Keyword3`" + `

---
논문 내용:
%s
`

const promptNormal = `You are an expert biology paper summarizer. Summarize the paper below in Korean.

CRITICAL RULES:
1. Output MUST be in Korean, but keep ALL technical terms in English (e.g., CRISPR-Cas9, phosphorylation, apoptosis, PCR, Western blot, transfection, knockdown, RNA-seq)
2. Gene names, protein names, compound names, cell line names MUST remain in English
3. Statistics and p-values should be kept as-is
4. Use Slack emoji format (e.g., :bulb:, :dart:, :bar_chart:)
5. For bullet points with labels, make the label bold before colon (e.g., • *Method:* description here)
6. Follow the EXACT output format below - do not add or remove sections

OUTPUT FORMAT:

:bar_chart: *논문 분석 결과*
*[Original paper title in English]*

:bulb: *한줄 핵심 (The Hook)*
[One impactful sentence summarizing the key finding/contribution with specific numbers or achievements]

:dart: *추천 대상*
[Target audience - 3-5 researcher/expert types, comma-separated]

───────────────────────
*1. 연구 목적 (Problem & Goal)*
• *기존 한계:* [Previous limitations or problems]
• *연구 목표:* [Specific goals and approach of this study]

───────────────────────
*2. 핵심 방법론 (Method & Tech Stack)*
• *실험/분석 방법:* [Main experimental/analysis methods]
• *사용 기술:* [Technologies, models, tools used]
• *실험 설계:* [Key experimental design]

───────────────────────
*3. 주요 발견 (Key Results)*
• [Most important finding 1 - include specific numbers]
• [Important finding 2]
• [Important finding 3]
• [Experimental validation or statistical significance]

───────────────────────
*4. 한계 및 비판 (Critical View)*
• *한계점:* [Limitations of the study]
• *개선 방향:* [Potential improvements]
• *추가 연구:* [Areas needing further research]

───────────────────────
` + "`#Keyword1` `#Keyword2` `#Keyword3` `#Keyword4` `#Keyword5`" + `

---
Paper content:
%s
`

const promptDetailed = `당신은 생물학 논문 요약 전문가입니다. 아래 논문 내용을 한글로 상세하게 요약해주세요.

중요 규칙:
1. Technical term은 반드시 영어 그대로 유지 (예: CRISPR-Cas9, phosphorylation, apoptosis, PCR, Western blot, transfection, siRNA, shRNA, qRT-PCR, ChIP-seq, RNA-seq 등)
2. 유전자명, 단백질명, 화합물명, 세포주명은 영어로 유지
3. 통계 수치와 p-value는 그대로 표기
4. 일반적인 설명은 자연스러운 한글로 작성
5. 이모지는 Slack 형식 사용

다음 형식으로 상세히 요약해주세요:

:bar_chart: *논문 분석 결과*
*[논문 원제목 - 영어 그대로]*
_[저자 정보 및 소속기관]_

:bulb: *한줄 핵심 (The Hook)*
[이 논문의 핵심 발견/기여를 임팩트 있는 한 문장으로 요약]

:dart: *추천 대상*
[이 논문을 읽으면 좋을 연구자/전문가 유형]

*1. 연구 목적 (Problem & Goal)*
• [연구의 학문적 배경]
• [기존 연구의 한계점]
• [본 연구의 구체적인 목표와 가설]

*2. 핵심 방법론 (Method & Tech Stack)*
• [실험 모델 (세포주, 동물 모델 등)]
• [주요 분자생물학적 기법]
• [분석 방법 및 통계]
• [사용된 도구/소프트웨어]

*3. 주요 발견 (Key Results)*
• [Figure별 또는 실험별 주요 결과]
• [통계적 유의성과 함께 구체적 수치 포함]
• [대조군 대비 실험군의 차이]

*4. 한계 및 비판 (Critical View)*
• [연구 설계의 한계]
• [결과 해석의 주의점]
• [일반화의 제한]
• [향후 연구 방향]

*5. 의의 및 응용 (Implications)*
• [학문적 기여]
• [실용적 응용 가능성]
• [후속 연구 방향]

` + "`#Keyword1` `#Keyword2` `#Keyword3` `#Keyword4` `#Keyword5` `#Keyword6`" + `

---
논문 내용:
%s
`

// promptFor returns the template for the level, defaulting to normal.
func promptFor(level entity.DetailLevel) string {
	switch level {
	case entity.DetailShort:
		return promptShort
	case entity.DetailDetailed:
		return promptDetailed
	default:
		return promptNormal
	}
}

// renderPrompt interpolates the paper text into the level's template,
// truncating the text so the result stays within maxPromptChars.
func renderPrompt(level entity.DetailLevel, text string) string {
	template := promptFor(level)

	// len(template)-2 accounts for the %s verb being replaced.
	budget := maxPromptChars - (len(template) - 2)
	if len(text) > budget {
		text = truncateToRuneBoundary(text, budget)
	}

	return fmt.Sprintf(template, text)
}

// truncateToRuneBoundary cuts s to at most max bytes without splitting
// a UTF-8 sequence.
func truncateToRuneBoundary(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
