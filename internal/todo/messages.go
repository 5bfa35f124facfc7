package todo

import "strings"

// Messages is the user-facing text set shared by every surface.
type Messages struct {
	Lang           string
	AppTitle       string
	TodoCount      string
	DoneCount      string
	Empty          string
	NoDescription  string
	ConfirmDelete  string
	TitleTooShort  string
	InvalidDueDate string
	Create         string
	Delete         string
	Cancel         string
	Yes            string
	No             string
	TitleLabel     string
	DescLabel      string
	DueLabel       string
	NewTask        string
	Help           string
	KeyHints       string
	HelpLines      []string
	DismissHint    string
}

var French = Messages{
	Lang:           "fr",
	AppTitle:       "Mes tâches",
	TodoCount:      "%d à faire",
	DoneCount:      "%d faites",
	Empty:          "Aucune tâche pour le moment.",
	NoDescription:  "Pas de description",
	ConfirmDelete:  "Voulez-vous vraiment supprimer cette tâche ?",
	TitleTooShort:  "Le titre doit contenir au moins 3 caractères",
	InvalidDueDate: "La date d'échéance doit être au format AAAA-MM-JJ",
	Create:         "Créer la tâche",
	Delete:         "Supprimer",
	Cancel:         "Annuler",
	Yes:            "Oui",
	No:             "Non",
	TitleLabel:     "Titre",
	DescLabel:      "Description",
	DueLabel:       "Échéance (AAAA-MM-JJ)",
	NewTask:        "Nouvelle tâche",
	Help:           "Aide",
	KeyHints:       "a ajouter | espace/x cocher | d supprimer | j/k déplacer | clic sur la case cocher | r recharger | ? aide | q quitter",
	HelpLines: []string{
		"Navigation :",
		"  j/k ou flèches déplacent la sélection",
		"  un clic sélectionne, un clic sur la case coche la tâche",
		"  la molette fait défiler la liste",
		"",
		"Actions :",
		"  a/n ajouter | espace/x cocher | d/suppr supprimer (demande confirmation)",
		"  entrée enregistrer (formulaire) | tab/flèches champ suivant | échap annuler",
		"  o/y confirmer la suppression | n/échap garder la tâche",
		"",
		"Autres :",
		"  r recharger | ? aide | échap fermer l'aide | q quitter",
		"  les changements faits depuis le navigateur s'affichent aussitôt",
	},
	DismissHint: "[entrée] OK",
}

var English = Messages{
	Lang:           "en",
	AppTitle:       "My tasks",
	TodoCount:      "%d to do",
	DoneCount:      "%d done",
	Empty:          "No tasks yet.",
	NoDescription:  "No description",
	ConfirmDelete:  "Do you really want to delete this task?",
	TitleTooShort:  "The title must contain at least 3 characters",
	InvalidDueDate: "The due date must use the YYYY-MM-DD format",
	Create:         "Create task",
	Delete:         "Delete",
	Cancel:         "Cancel",
	Yes:            "Yes",
	No:             "No",
	TitleLabel:     "Title",
	DescLabel:      "Description",
	DueLabel:       "Due (YYYY-MM-DD)",
	NewTask:        "New task",
	Help:           "Help",
	KeyHints:       "a add | space/x toggle | d delete | j/k move | click checkbox toggle | r reload | ? help | q quit",
	HelpLines: []string{
		"Navigation:",
		"  j/k or arrows move selection",
		"  mouse click selects, click on the checkbox toggles",
		"  mouse wheel scrolls the list",
		"",
		"Actions:",
		"  a/n add task | space/x toggle done | d/del delete (asks first)",
		"  enter save (form) | tab/arrows next field | esc cancel",
		"  y/o confirm delete | n/esc keep task",
		"",
		"Other:",
		"  r reload | ? help | esc close help | q quit",
		"  changes made in the browser show up right away",
	},
	DismissHint: "[enter] OK",
}

// MessagesFor returns the text set for a locale tag such as "fr" or "en-GB".
// Unknown locales fall back to French.
func MessagesFor(locale string) Messages {
	value := strings.ToLower(strings.TrimSpace(locale))
	if strings.HasPrefix(value, "en") {
		return English
	}
	return French
}
