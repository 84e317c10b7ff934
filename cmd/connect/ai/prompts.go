package ai

var promptPickAgain = `
%s

Assistant:
%s

User:
You didn't provide a single column number from the list. Please try again.
`

var promptPick = `User:
Use the following pieces of information to answer the user's question.
If you don't know the answer, say that you don't know.

Provide the answer in a JSON document using the following document.

{
    "Column": integer,
    "Reason": string
}

The user is playing the board game Connect 4 and they will ask you a question
so you can help them make their next move. Use the rules for Connect 4 to help
answer the question.

The board is shown from the top row down. Red pieces are marked R, Yellow
pieces are marked Y and empty cells are marked with a dot.

Please respond with a single column number from this list [%s]. Take a
winning column if there is one, otherwise block a column Yellow could win
with.

Here is the current state of the Game Board.

%s

Question:
Which column number from the list should the Red player choose and how can that
column number help them win the game based on the current state of the game board?
`
