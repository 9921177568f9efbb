package app

// MinPlayersToStartGame is the fallback minimum number of registered players required to start
// a game when the rules config does not set one.
const MinPlayersToStartGame = 2
