package service

import (
	"fmt"
	"strings"
	"time"

	"recepce/internal/models"
)

// All user-facing strings live here. The engine speaks Czech; callers get
// exactly one sentence per operation and never an error.
const (
	msgInvalidFormat = "Neplatný formát data nebo času. Zadejte prosím datum ve formátu RRRR-MM-DD a čas ve formátu HH:MM."
	msgUnverified    = "Omlouvám se, ale momentálně se mi nedaří ověřit dostupnost. Zkuste to prosím za chvíli."
	msgMissingFields = "Omlouvám se, ale chybí mi některé údaje pro vytvoření rezervace."
	msgMissingPhone  = "Omlouvám se, ale nemám vaše telefonní číslo, které je nutné pro potvrzení rezervace."
	msgBookRetry     = "Omlouvám se, ale termín se nepodařilo zarezervovat. Zkuste to prosím znovu."
	msgCancelPhone   = "Pro zrušení rezervace potřebuji telefonní číslo."
	msgNothingFound  = "Nenašel jsem žádnou rezervaci spojenou s vaším telefonním číslem."
	msgCancelFailed  = "Omlouvám se, ale zrušení rezervace se teď nepodařilo. Zkuste to prosím později."
)

func msgNeedTime(day string) string {
	return fmt.Sprintf("Abych mohl ověřit dostupnost pro %s, potřebuji ještě čas rezervace.", day)
}

func msgAvailable(day, timeOfDay string) string {
	return fmt.Sprintf("Ano, %s v %s mám volno.", day, timeOfDay)
}

func msgClosedDay(weekday time.Weekday) string {
	return fmt.Sprintf("%s máme zavřeno.", capitalizeFirst(models.CzechWeekdaysLocative[weekday]))
}

func msgOutOfHours(weekday time.Weekday, open, close string) string {
	return fmt.Sprintf("%s máme otevřeno jen od %s do %s.", capitalizeFirst(models.CzechWeekdaysLocative[weekday]), open, close)
}

func msgBusyWithAlternatives(start time.Time, alternatives []string) string {
	return fmt.Sprintf("Je mi líto, ve %s je plno, ale volno mám v %s.",
		start.Format("15:04"), strings.Join(alternatives, " nebo v "))
}

func msgBusyNoAlternatives(start time.Time) string {
	return fmt.Sprintf("Je mi líto, ale %s je obsazeno a v okolí jsem nenašel volné místo.",
		start.Format("02.01. 15:04"))
}

func msgBooked(name string, start time.Time, timeOfDay string) string {
	return fmt.Sprintf("Vaše rezervace na jméno %s na %s v %s byla úspěšně vytvořena. Těšíme se na vás.",
		name, formatCzechDate(start), timeOfDay)
}

func msgCancelled(start time.Time) string {
	return fmt.Sprintf("Vaše rezervace na %s v %s byla zrušena.",
		formatCzechDate(start), start.Format("15:04"))
}

// formatCzechDate renders "2. ledna 2024" with the month in genitive case.
func formatCzechDate(t time.Time) string {
	return fmt.Sprintf("%d. %s %d", t.Day(), models.CzechMonths[t.Month()], t.Year())
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
