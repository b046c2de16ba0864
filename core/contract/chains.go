package contract

import "github.com/lbrandt/litnlp/model"

// buildCorefChains regroups the finished mention list by resolved character
// ID. Mentions without a character are excluded; one chain is emitted per
// character that has at least one resolved mention. Chains appear in the
// order their character is first encountered in the mention list, and each
// chain keeps its mentions in list order.
func buildCorefChains(mentions []model.Mention) []model.CorefChain {
	byCharacter := make(map[string][]string)
	var characterOrder []string

	for _, m := range mentions {
		if m.CharacterID == nil {
			continue
		}
		id := *m.CharacterID
		if _, ok := byCharacter[id]; !ok {
			characterOrder = append(characterOrder, id)
		}
		byCharacter[id] = append(byCharacter[id], m.ID)
	}

	chains := make([]model.CorefChain, 0, len(characterOrder))
	for _, characterID := range characterOrder {
		id := characterID
		chains = append(chains, model.CorefChain{
			ChainID:     model.ChainID(characterID),
			CharacterID: &id,
			Mentions:    byCharacter[characterID],
		})
	}

	return chains
}
