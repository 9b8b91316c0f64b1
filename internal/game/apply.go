package game

import "fmt"

// apply carries out an action that validateAction accepted.
func (g *Game) apply(a Action) error {
	if a.Kind == ActionConcede {
		g.playerLoses(a.Player, LossConcession)
		return nil
	}
	if g.decision != nil {
		return g.applyDecision(a)
	}

	var err error
	switch a.Kind {
	case ActionPass:
		return g.pass(a.Player)
	case ActionPlayLand:
		err = g.playLand(a)
	case ActionCastSpell:
		err = g.castSpell(a)
	case ActionActivateAbility:
		manaAbility := g.objects[a.ObjectID].def.Activated[a.Ability].IsManaAbility()
		if err := g.activateAbility(a); err != nil || manaAbility {
			// Mana abilities do not use the stack and leave priority where it is.
			return err
		}
	default:
		return fmt.Errorf("unexpected action %s", a.Kind)
	}
	if err != nil {
		return err
	}
	g.actionTaken()
	return nil
}
