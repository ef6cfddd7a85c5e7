package game

const (
	welcomeMsg = `✨ Welcome to the mini-game "You and the Universe".
Today you can touch the energy of your future and see the hints the Universe has prepared just for you.

This game will help you look inside yourself, understand what you truly want and take the first step towards what you want to bring into your life.`

	askNameMsg = "👤 Write your first and last name, or your Instagram/Telegram nickname, whichever you prefer."

	wishIntroMsg = `Put your hand on your heart ❤️
Take a deep breath and think about what you sincerely want to come true.

It can be anything:
— pay off debts
— improve relationships
— love yourself
— increase income
— start a business
— or any other goal that matters to you.

The main thing is that the wish is honest and comes from the heart.

When you feel it, imagine it has already come true. Feel the emotions of that future.`

	askWishMsg = "✍️ Now write your wish in the present tense, as if it has already happened."

	rollPromptMsg = `✨ Great! Now let's see how sincere your wish is.
Press the button to roll the dice 🎲`

	rerollPromptMsg = `✨ Great! Let's try once more.
Press the button to roll the dice 🎲`

	diceWonMsg = `✨ Congratulations!
Your wish is truly sincere and you are ready to receive the Universe's hints 🔮

Now choose a card.`

	diceLostMsg = `🤔 It seems your wish is hidden a little deeper. Maybe you did not express it fully, or not the way you feel it…
Would you like to try again? 🔄`

	diceExhaustedMsg = `🤔 It seems your wish is hidden a little deeper. Maybe you did not express it fully, or not the way you feel it…
But let's continue with what we have. Sometimes the Universe does not show us the way right away ✨`

	chooseCardMsg = "🃏 Now choose one of the cards:"

	askDescriptionMsg = "👁️ Write what you see on this card. Just describe the picture."
	askEmotionsMsg    = "💭 What emotions and feelings does this card give you? Describe them honestly."
	askPurposeMsg     = "🤔 Why do you think this exact card came to you? What is it for?"

	askSelfImprovementMsg = `🔍 Look at the card once more.
What do you think you need to improve in yourself for your wish to come true?

The answer is usually the first thing that comes to mind.`

	askAdviceMsg = `🧙‍♀️ Imagine that you are a wise mentor for this card.
What advice would you give it so that it helps you make your wish come true?

Write it like this:

…
…
…`

	reflectionDoneMsg = `✨ Great!
You have just written what can help you get closer to your wish.
If you really do it for yourself, the Universe will surely reward you with the result 🙌`

	giftOfferMsg = `Now choose your gift in the game 🎁
Pick two cards.`

	firstGiftMsg  = "🎁 Choose your first gift card:"
	secondGiftMsg = "🎁 Now choose your second gift card:"

	giftsDoneMsg = `✨ In 60% of cases the gifts that come up in the game show up in real life too.
I wish you luck and the courage to walk a new path.
Remember: the way it was before no longer works.`

	fullGameOfferMsg = "If you want a complete plan for changing your life, I invite you to the big transformational game for creating your new present 🔥"

	discountOfferMsg = "Right now you can get a 15% discount if you write a review of the mini game and tag our Instagram account ✨"

	askInstagramMsg = "📱 Write your Instagram nickname so we can check your tag:"

	discountClaimedMsg = `Hooray! 🎉
The 15% discount is yours.
Write to our Instagram account to get your gift and pick a date for the game ♥️`

	noCardsMsg         = "❌ No cards found!"
	noGiftCardsMsg     = "❌ No gift cards found!"
	noMoreGiftCardsMsg = "❌ There are no more cards to choose from!"
	missingCardMsg     = "❌ This card's image is missing. Please try another one."
	emptyAnswerMsg     = "Please write a few words."
	notStartedMsg      = "Send /start to begin the game."
	diceFailedMsg      = "Could not roll the dice. Please try again"
	somethingWrongMsg  = "Something went wrong. Please try again"

	startGameButton     = "🎮 Start the game"
	rollDiceButton      = "🎲 Roll the dice"
	retryButton         = "🔄 Yes, try again"
	continueButton      = "➡️ No, leave it as is"
	giftStartButton     = "🎁 Start choosing gifts"
	learnMoreButton     = "🔥 I want to know more"
	wantDiscountButton  = "💰 I want 15% off"
	openInstagramButton = "Open Instagram"
	prevButton          = "◀️ Previous"
	nextButton          = "Next ▶️"
	selectButton        = "Choose this card"
)

// CardSelectedResponse is the popup shown when a card is chosen.
const CardSelectedResponse = "Card chosen!"
