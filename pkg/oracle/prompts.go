package oracle

import "fmt"

const boardPrompt = `You are a Jeopardy! expert who writes excellent clues.

Write the clues for one Jeopardy! board.

A Jeopardy! board has 6 categories. Each category has 5 clues of increasing
difficulty worth $200, $400, $600, $800 and $1000.

Reply with JSON only, using this template:

{
  "CATEGORY 1": [
    {
      "question": "Clue 1",
      "value": "$200",
      "answer": "Answer 1"
    },
    {
      "question": "Clue 2",
      "value": "$400",
      "answer": "Answer 2"
    }
  ],
  "CATEGORY 2": [],
  "CATEGORY 3": [],
  "CATEGORY 4": [],
  "CATEGORY 5": [],
  "CATEGORY 6": []
}
`

const answerPromptTemplate = `You are the host of Jeopardy!

The current clue is: %s
The correct response is: %s

The contestant responds with: %s

Is the contestant correct?

Start your reply with %q if the response is correct,
or with %q if the response is incorrect.

Then explain why.
`

func answerPrompt(clue, answer, response string) string {
	return fmt.Sprintf(answerPromptTemplate, clue, answer, response, CorrectMarker+" ", IncorrectMarker+" ")
}
