package quiz

// option pairs a selectable answer with the points it contributes.
type option struct {
	Key   string
	Text  string
	Score int
}

// question is one questionnaire item. IDs are 1-based and stable, the
// scoring endpoint references them.
type question struct {
	ID      int
	Text    string
	Options []option
}

// The Grable & Lytton style risk tolerance questionnaire. Option scores
// are not monotonic per key, each question carries its own mapping.
var questions = []question{
	{
		ID:   1,
		Text: "In general, how would your best friend describe you as a risk taker?",
		Options: []option{
			{"A", "A real gambler", 4},
			{"B", "Willing to take risks after completing adequate research", 3},
			{"C", "Cautious", 2},
			{"D", "A real risk avoider", 1},
		},
	},
	{
		ID:   2,
		Text: "You are on a TV game show and can choose one of the following. Which would you take?",
		Options: []option{
			{"A", "$1,000 in cash", 1},
			{"B", "A 50% chance at winning $5,000", 2},
			{"C", "A 25% chance at winning $10,000", 3},
			{"D", "A 5% chance at winning $100,000", 4},
		},
	},
	{
		ID:   3,
		Text: "You have just finished saving for a once-in-a-lifetime vacation. Three weeks before you plan to leave, you lose your job. You would:",
		Options: []option{
			{"A", "Cancel the vacation", 1},
			{"B", "Take a much more modest vacation", 2},
			{"C", "Go as scheduled, reasoning that you need the time to prepare for a job search", 3},
			{"D", "Extend your vacation because this might be your last chance to go first-class", 4},
		},
	},
	{
		ID:   4,
		Text: "If you unexpectedly received $20,000 to invest, what would you do?",
		Options: []option{
			{"A", "Deposit it in a bank account, money market fund, or insured CD", 1},
			{"B", "Invest it in safe high-quality bonds or bond mutual funds", 2},
			{"C", "Invest it in stocks or stock mutual funds", 3},
		},
	},
	{
		ID:   5,
		Text: "In terms of experience, how comfortable are you investing in stocks or stock mutual funds?",
		Options: []option{
			{"A", "Not at all comfortable", 1},
			{"B", "Somewhat comfortable", 2},
			{"C", "Very comfortable", 3},
		},
	},
	{
		ID:   6,
		Text: "When you think of the word 'risk,' which of the following words comes to mind first?",
		Options: []option{
			{"A", "Loss", 1},
			{"B", "Uncertainty", 2},
			{"C", "Opportunity", 3},
			{"D", "Thrill", 4},
		},
	},
	{
		ID:   7,
		Text: "Some experts are predicting prices of assets such as gold, jewels, collectibles, and real estate to increase, while the stock market is expected to decline. If you owned stock investments, what would you do?",
		Options: []option{
			{"A", "Hold what you have", 3},
			{"B", "Sell your stocks and invest in assets expected to increase in value", 2},
			{"C", "Sell your stocks and put the money in a bank account or money market fund", 1},
		},
	},
	{
		ID:   8,
		Text: "Given the best and worst case returns of the four investment choices below, which would you prefer?",
		Options: []option{
			{"A", "$200 gain / $0 loss", 1},
			{"B", "$800 gain / $200 loss", 2},
			{"C", "$2,600 gain / $800 loss", 3},
			{"D", "$4,800 gain / $2,400 loss", 4},
		},
	},
	{
		ID:   9,
		Text: "In addition to whatever you own, you have been given $1,000. You are now asked to choose between:",
		Options: []option{
			{"A", "A sure gain of $500", 1},
			{"B", "A 50% chance to gain $1,000 and a 50% chance to gain nothing", 2},
		},
	},
	{
		ID:   10,
		Text: "In addition to whatever you own, you have been given $2,000. You are now asked to choose between:",
		Options: []option{
			{"A", "A sure loss of $500", 1},
			{"B", "A 50% chance to lose $1,000 and a 50% chance to lose nothing", 2},
		},
	},
	{
		ID:   11,
		Text: "Suppose a relative left you an inheritance of $100,000, stipulating that you must invest all of it in one of the following choices. Which would you select?",
		Options: []option{
			{"A", "A savings account or money market mutual fund", 1},
			{"B", "A mutual fund that owns stocks and bonds", 2},
			{"C", "A portfolio of 15 common stocks", 3},
			{"D", "Commodities like gold, silver, and oil", 4},
		},
	},
	{
		ID:   12,
		Text: "If you had to invest $20,000, which investment would you select?",
		Options: []option{
			{"A", "60% low-risk / 30% medium-risk / 10% high-risk", 1},
			{"B", "30% low-risk / 40% medium-risk / 30% high-risk", 2},
			{"C", "10% low-risk / 40% medium-risk / 50% high-risk", 3},
		},
	},
	{
		ID:   13,
		Text: "Your trusted friend and financial advisor suggests a 'once in a lifetime' investment. If you invest, you could double your money, but you could also lose half. What would you do?",
		Options: []option{
			{"A", "Invest nothing", 1},
			{"B", "Invest a small portion", 2},
			{"C", "Invest about half of what you could afford", 3},
			{"D", "Invest all you could afford", 4},
		},
	},
}
