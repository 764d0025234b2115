package converter

import (
	"casino_engine/internal/api/dto/engine"
	"casino_engine/internal/model"
)

func ToBetParams(req engine.PlaceBetRequest) model.BetParams {
	return model.BetParams{
		ClientSeed: req.ClientSeed,
		Prediction: req.Prediction,
		Color:      req.Color,
		MineCount:  req.MineCount,
	}
}

func ToPlaceBetResponse(res model.PlaceBetResult) engine.PlaceBetResponse {
	return engine.PlaceBetResponse{
		RoundID:    res.RoundID,
		CommitHash: res.CommitHash,
		Balance:    res.Balance,
	}
}

func ToRoundStateResponse(st model.RoundState) engine.RoundStateResponse {
	return engine.RoundStateResponse{
		RoundID:    st.RoundID,
		Game:       string(st.Game),
		Phase:      string(st.Phase),
		Wager:      st.Wager,
		Payout:     st.Payout,
		Outcome:    string(st.Outcome),
		Multiplier: st.Multiplier,
		CommitHash: st.CommitHash,
		ServerSeed: st.ServerSeed,
		View:       st.View,
	}
}
