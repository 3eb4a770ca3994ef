// Package notify contains dispatcher implementations for weekly decision
// messages: SMTP delivery for production and console output for development.
package notify

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/example/stride/internal/core/locale"
	"github.com/example/stride/internal/ports/secondary"
)

// catalog holds the message templates and tip pools for one language.
type catalog struct {
	subjectNormal     string
	subjectMaintained string
	averageLine       string
	metLine           string
	missedLine        string
	targetLine        string
	maintainedIntro   string
	maintainedTarget  string
	tipsMet           []string
	tipsMissed        []string
}

var catalogs = map[string]catalog{
	locale.English: {
		subjectNormal:     "Step Count Summary and New Target",
		subjectMaintained: "Step Target Maintained",
		averageLine:       "Last week you did an average of %d steps per day.",
		metLine:           "This was more than last week's target of %d steps per day.",
		missedLine:        "This was less than last week's target of %d steps per day.",
		targetLine:        "Your target for next week is %d steps per day.",
		maintainedIntro:   "We don't have enough step data from this week.",
		maintainedTarget:  "Your target remains %d steps per day.",
		tipsMet: []string{
			"You are on track! Keep up the great work.",
			"Well done. Every step counts towards better health.",
			"Congratulations on meeting your target!",
			"Hard work can pay off. Good job.",
			"High five. You met last week's goals.",
			"Excellent. Persistence can pay off.",
			"Good job! Your commitment to health is showing.",
			"Two thumbs up! Keep it up- one step forward at a time.",
			"Hooray! Celebrate your efforts and achievements.",
			"Wow! Each step is an investment in health.",
		},
		tipsMissed: []string{
			"The opposite of stepping is sitting. Break up the sitting! After 30 minutes of sitting, get up, stand, stretch, and- when possible- step!",
			"Adding a walk into your day will take you 'steps' towards your daily goal, but 'leaps' towards your overall health!",
			"Taking public transport- bus, subway, metro, train- will usually mean more steps than if you drive door to door. Do it if you can!",
			"How about putting some music on and dancing? Let's see those dance steps!",
			"Feeling tired? A little walk or a few steps may be what you need to perk up.",
			"Know that even if your total steps today is not as high as you planned, there is always tomorrow to try again.",
			"Higher steps mean better blood sugar control.",
			"If you step more, you may sleep better.",
			"You may have not met the step goal today but be proud of every step you did take because every step counts. Keep stepping!",
			"Could you walk instead of drive? Think about it.",
			"When you drive somewhere, park the car a bit further from where you are going- you will have to step more.",
		},
	},
	locale.French: {
		subjectNormal:     "Résumé du nombre de pas et nouvel objectif",
		subjectMaintained: "Objectif de pas maintenu",
		averageLine:       "La semaine dernière vous avez fait un moyen de %d pas par jour.",
		metLine:           "Vous avez fait plus que le but de la semaine dernière qui était %d pas par jours.",
		missedLine:        "Vous avez fait moins que le but de la semaine dernière qui était %d pas par jours.",
		targetLine:        "Cela signifie que votre objectif pour la semaine prochaine est %d pas par jour.",
		maintainedIntro:   "Nous n'avons pas suffisamment de données de pas cette semaine.",
		maintainedTarget:  "Votre objectif reste %d pas par jour.",
		tipsMet: []string{
			"Vous êtes sur la bonne voie! Continuez le bon travail.",
			"Bravo! Chaque pas compte pour une meilleure santé.",
			"Félicitations pour avoir atteint votre objectif!",
			"Le travail acharné peut porter fruit. Bon travail.",
			"Tape m'en cinq. Vous avez atteint les objectifs de la semaine dernière.",
			"Excellent. La persistance peut porter fruit.",
			"Bon travail! Votre engagement pour la santé est visible.",
			"Deux pouces vers le haut! Continuez- un pas en avant à la fois.",
			"Hourra! Célébrez vos efforts et vos réalisations.",
			"Wow! Chaque pas est un investissement dans la santé.",
		},
		tipsMissed: []string{
			"Le contraire de marcher est de s'asseoir. Arrêtez de vous asseoir! Après 30 minutes assise, levez-vous, restez debout, étirez-vous et - quand possible - marchez!",
			"Utiliser le transport en commun - bus, métro, train - signifiera généralement plus de marches que si vous conduisiez de porte à porte. Faites-le si vous le pouvez!",
			"Pourquoi ne pas mettre de la musique et danser? Laissez-nous voir ces pas de danse!",
			"Vous vous sentez fatiguée? Une petite promenade ou faire quelques pas peut être ce dont vous avez besoin pour vous revigorer.",
			"Sachez que même si le nombre total de vos pas aujourd'hui n'est pas aussi élevé que prévu, il y a toujours le lendemain pour réessayer.",
			"Un nombre plus élevé de pas signifie un meilleur contrôle de la glycémie.",
			"Si vous marchez davantage, vous dormirez peut-être mieux.",
			"Un pas marché est un pas plus proche de votre objectif! Pensez à des moyens d'ajouter la marche à votre journée lorsque vous êtes normalement assise.",
			"Lorsque vous conduisez quelque part, garez la voiture un peu plus loin de l'endroit où vous vous dirigez - vous devrez ainsi marcher davantage.",
		},
	},
}

// pickTip is swapped out in tests for deterministic content.
var pickTip = func(pool []string) string {
	return pool[rand.IntN(len(pool))]
}

// BuildContent composes the subject and body for one weekly decision
// message in the participant's language. A request without an average is
// rendered as a maintained-target message; otherwise the body summarizes
// last week's average, how it compared to the previous target when one
// exists, and the new target, closing with a motivational tip.
func BuildContent(req secondary.NotificationRequest) (subject, body string) {
	cat := catalogs[locale.Normalize(req.Language)]

	if req.AverageSteps == nil {
		lines := []string{
			cat.maintainedIntro,
			fmt.Sprintf(cat.maintainedTarget, req.NewTarget),
			"",
			pickTip(cat.tipsMissed),
		}
		return cat.subjectMaintained, strings.Join(lines, "\n")
	}

	lines := []string{fmt.Sprintf(cat.averageLine, *req.AverageSteps)}
	if req.TargetWasMet != nil && req.PreviousTarget != nil && *req.PreviousTarget > 0 {
		line := cat.missedLine
		if *req.TargetWasMet {
			line = cat.metLine
		}
		lines = append(lines, fmt.Sprintf(line, *req.PreviousTarget))
	}
	lines = append(lines, fmt.Sprintf(cat.targetLine, req.NewTarget))

	tips := cat.tipsMissed
	if req.TargetWasMet != nil && *req.TargetWasMet {
		tips = cat.tipsMet
	}
	lines = append(lines, "", pickTip(tips))

	return cat.subjectNormal, strings.Join(lines, "\n")
}
