// Command stubagent is a reference implementation of the decision protocol:
// an HTTP server answering /choices, /gamble and /fight. It prefers healing
// when hurt, gambles power conservatively and always commits to fights.
// Useful for local tournament runs and as protocol documentation.
package main

import (
	"flag"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/agent"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/constants"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/game"
	"github.com/rust-community-discord/rplcs-events-tournament-1/internal/logging"
)

func main() {
	addr := flag.String("addr", ":3000", "listen address")
	flag.Parse()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET(constants.RouteLiveness, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.POST(constants.RouteChoices, func(c *gin.Context) {
		var choices agent.MoveChoices
		if err := c.ShouldBindJSON(&choices); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		if len(choices.Choices) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no choices offered"})
			return
		}
		c.JSON(http.StatusOK, agent.ChoiceResponse{ChoiceIndex: pickMove(choices.Choices, rng)})
	})

	router.POST(constants.RouteGamble, func(c *gin.Context) {
		// Gamble power now and then, never health.
		choice := game.GambleSkip
		if rng.Float64() < 0.5 {
			choice = game.GamblePower
		}
		c.JSON(http.StatusOK, choice)
	})

	router.POST(constants.RouteFight, func(c *gin.Context) {
		var enemy agent.EnemyStats
		if err := c.ShouldBindJSON(&enemy); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		c.JSON(http.StatusOK, game.ChoiceFight)
	})

	logging.Info("stub agent listening", logging.Fields{constants.LogFieldAddr: *addr})
	if err := router.Run(*addr); err != nil {
		logging.Fatal("stub agent failed", err, nil)
	}
}

// pickMove favors heal nodes, then gamble nodes, otherwise a random choice.
func pickMove(choices []game.EffectKind, rng *rand.Rand) int {
	for i, k := range choices {
		if k == game.EffectHeal {
			return i
		}
	}
	for i, k := range choices {
		if k == game.EffectGamble {
			return i
		}
	}
	return rng.Intn(len(choices))
}
