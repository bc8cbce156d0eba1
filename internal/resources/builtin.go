// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package resources

// builtin is the shipped resource set. Kept short on purpose: the app
// is a companion, not a reference manual.
var builtin = []Resource{
	{
		ID:       "crisis-lines",
		Title:    "Crisis Support Lines",
		Category: CategoryCrisis,
		Summary:  "Immediate help when you are in crisis.",
		Body: `# Crisis Support Lines

If you are in immediate danger, contact local emergency services.

- **988 Suicide & Crisis Lifeline (US)**: call or text 988, available 24/7
- **Crisis Text Line**: text HOME to 741741
- **International Association for Suicide Prevention**: https://www.iasp.info/resources/Crisis_Centres/

You do not have to be suicidal to reach out. These lines support anyone
in emotional distress.`,
	},
	{
		ID:       "grounding-54321",
		Title:    "5-4-3-2-1 Grounding",
		Category: CategoryCoping,
		Summary:  "A quick exercise to interrupt spiraling thoughts.",
		Body: `# 5-4-3-2-1 Grounding

When your thoughts are racing, anchor yourself in your senses. Name:

1. **5** things you can see
2. **4** things you can touch
3. **3** things you can hear
4. **2** things you can smell
5. **1** thing you can taste

Go slowly. The goal is not to finish fast but to pull attention back to
the present moment.`,
	},
	{
		ID:       "box-breathing",
		Title:    "Box Breathing",
		Category: CategoryAnxiety,
		Summary:  "Slow, structured breathing to calm the nervous system.",
		Body: `# Box Breathing

Breathe in a square:

1. Inhale through your nose for **4 counts**
2. Hold for **4 counts**
3. Exhale through your mouth for **4 counts**
4. Hold for **4 counts**

Repeat for 2-5 minutes. If 4 counts feels long, start with 3.`,
	},
	{
		ID:       "sleep-hygiene",
		Title:    "Sleep Hygiene Basics",
		Category: CategorySleep,
		Summary:  "Small habits that add up to better sleep.",
		Body: `# Sleep Hygiene Basics

- Keep a consistent wake time, even on weekends
- Dim screens an hour before bed, or use a night mode
- Keep the bedroom cool and dark
- Avoid caffeine after mid-afternoon
- If you cannot sleep after 20 minutes, get up and do something calm
  until you feel drowsy

One bad night is normal. Patterns matter more than single nights.`,
	},
	{
		ID:       "naming-emotions",
		Title:    "Naming What You Feel",
		Category: CategoryEducation,
		Summary:  "Why putting feelings into words helps.",
		Body: `# Naming What You Feel

Research calls it *affect labeling*: putting an emotion into words
reduces its intensity. "I'm stressed" is a start; "I'm worried I will
disappoint my team tomorrow" gives you something you can act on.

Try finishing these in your journal or in chat:

- Right now I feel...
- The strongest feeling today was...
- If this feeling could talk, it would say...`,
	},
	{
		ID:       "thought-record",
		Title:    "Catching Thought Spirals",
		Category: CategoryCoping,
		Summary:  "A three-column check for harsh automatic thoughts.",
		Body: `# Catching Thought Spirals

When a harsh thought lands, write three columns:

| Situation | Automatic thought | A fairer take |
|-----------|-------------------|---------------|
| Missed a deadline | "I ruin everything" | "I missed one deadline; most of my work lands on time" |

The fairer take is not forced positivity. It is what you would tell a
friend in the same situation.`,
	},
}
