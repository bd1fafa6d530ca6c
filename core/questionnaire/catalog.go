package questionnaire

// Answer fields used to identify a response.
const (
	FieldWorker      = "meta_nome"
	FieldWorkstation = "meta_postazione"
	FieldDepartment  = "meta_reparto"
)

// Question types.
const (
	TypeText     = "text"
	TypeTextarea = "textarea"
	TypeNumber   = "number"
	TypeRadio    = "radio"
	TypeYesNo    = "yesno"
)

var yesNo = []string{"SI", "NO"}

type Question struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

type Section struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Questions is the VDT workstation assessment, in display order.
var Questions = []Question{
	{ID: "meta_nome", Label: "Nome valutato / lavoratore", Type: TypeText},
	{ID: "meta_postazione", Label: "Postazione n.", Type: TypeText},
	{ID: "meta_reparto", Label: "Ufficio / Reparto", Type: TypeText},

	{ID: "1.1", Label: "1.1 Ore di lavoro settimanali a VDT (abituali)", Type: TypeNumber},
	{ID: "1.2", Label: "1.2 Pause/cambi attività 15' ogni 120' (SI/NO)", Type: TypeYesNo, Options: yesNo},
	{ID: "1.2_note", Label: "1.2 - Necessità di intervento (note)", Type: TypeTextarea},
	{ID: "1.3", Label: "1.3 Tipo di lavoro prevalente", Type: TypeText},
	{ID: "1.4", Label: "1.4 Informazione al lavoratore per uso VDT (SI/NO)", Type: TypeYesNo, Options: yesNo},
	{ID: "1.4_note", Label: "1.4 - Necessità di intervento (note)", Type: TypeTextarea},

	{ID: "2.1", Label: "2.1 Modalità ricambio aria (naturale/artificiale)", Type: TypeRadio, Options: []string{"naturale", "artificiale"}},
	{ID: "2.2", Label: "2.2 Possibilità di regolare la temperatura", Type: TypeYesNo, Options: yesNo},
	{ID: "2.3", Label: "2.3 Possibilità di regolare l'umidità", Type: TypeYesNo, Options: yesNo},
	{ID: "2.4", Label: "2.4 Eccesso di calore dalle attrezzature (SI/NO)", Type: TypeYesNo, Options: yesNo},
	{ID: "2.4_note", Label: "2.4 - Necessità di intervento (note)", Type: TypeTextarea},

	{ID: "3.1", Label: "3.1 Tipo di luce (naturale/artificiale/mista)", Type: TypeRadio, Options: []string{"naturale", "artificiale", "mista"}},
	{ID: "3.2_nat", Label: "3.2 - Regolazione luce naturale", Type: TypeText},
	{ID: "3.2_art", Label: "3.2 - Regolazione luce artificiale", Type: TypeText},
	{ID: "3.3", Label: "3.3 Posizione rispetto alla sorgente naturale", Type: TypeText},
	{ID: "3_note", Label: "3 - Necessità di intervento (note)", Type: TypeTextarea},

	{ID: "4.1", Label: "4.1 Eventuale misura rumore (dB(A))", Type: TypeText},
	{ID: "4.2", Label: "4.2 Disturbo attenzione/comunicazione (SI/NO)", Type: TypeYesNo, Options: yesNo},
	{ID: "4_note", Label: "4 - Necessità di intervento (note)", Type: TypeTextarea},

	{ID: "5.1", Label: "5.1 Spazio di lavoro/manovra adeguato (SI/NO)", Type: TypeYesNo, Options: yesNo},
	{ID: "5.2", Label: "5.2 Percorsi liberi da ostacoli (SI/NO)", Type: TypeYesNo, Options: yesNo},
	{ID: "5_note", Label: "5 - Necessità di intervento (note)", Type: TypeTextarea},

	{ID: "6.1", Label: "6.1 Superficie del piano adeguata (SI/NO)", Type: TypeYesNo, Options: yesNo},
	{ID: "6.2", Label: "6.2 Altezza del piano 70-80cm (SI/NO)", Type: TypeYesNo, Options: yesNo},
	{ID: "6.3", Label: "6.3 Dimensioni/disposizione schermo/tastiera/mouse (SI/NO)", Type: TypeYesNo, Options: yesNo},
	{ID: "6_note", Label: "6 - Necessità di intervento (note)", Type: TypeTextarea},

	{ID: "7.1", Label: "7.1 Altezza sedile regolabile", Type: TypeYesNo, Options: yesNo},
	{ID: "7.2", Label: "7.2 Inclinazione sedile regolabile", Type: TypeYesNo, Options: yesNo},
	{ID: "7.3", Label: "7.3 Schienale con supporto dorso-lombare", Type: TypeYesNo, Options: yesNo},
	{ID: "7.4", Label: "7.4 Schienale regolabile in altezza", Type: TypeYesNo, Options: yesNo},
	{ID: "7.5", Label: "7.5 Schienale/seduta bordi smussati/materiali appropriati", Type: TypeYesNo, Options: yesNo},
	{ID: "7.6", Label: "7.6 Presenza di ruote/meccanismo spostamento", Type: TypeYesNo, Options: yesNo},
	{ID: "7_note", Label: "7 - Necessità di intervento (note)", Type: TypeTextarea},

	{ID: "8.1", Label: "8.1 Monitor orientabile/inclinabile", Type: TypeYesNo, Options: yesNo},
	{ID: "8.2", Label: "8.2 Immagine stabile, senza sfarfallio", Type: TypeYesNo, Options: yesNo},
	{ID: "8.3", Label: "8.3 Risoluzione/luminosità regolabili", Type: TypeYesNo, Options: yesNo},
	{ID: "8.4", Label: "8.4 Contrasto/luminosità adeguati", Type: TypeYesNo, Options: yesNo},
	{ID: "8.5", Label: "8.5 Presenza di riflessi o riverberi", Type: TypeYesNo, Options: yesNo},
	{ID: "8.6", Label: "8.6 Note su posizione dello schermo", Type: TypeText},
	{ID: "8_note", Label: "8 - Necessità di intervento (note)", Type: TypeTextarea},

	{ID: "9.1", Label: "9.1 Tastiera e mouse separati dallo schermo", Type: TypeYesNo, Options: yesNo},
	{ID: "9.2", Label: "9.2 Tastiera inclinabile", Type: TypeYesNo, Options: yesNo},
	{ID: "9.3", Label: "9.3 Spazio per appoggiare avambracci", Type: TypeYesNo, Options: yesNo},
	{ID: "9.4", Label: "9.4 Simboli/tasti leggibili", Type: TypeYesNo, Options: yesNo},
	{ID: "9_note", Label: "9 - Necessità di intervento (note)", Type: TypeTextarea},

	{ID: "10.1", Label: "10.1 Software adeguato e di facile utilizzo (SI/NO)", Type: TypeYesNo, Options: yesNo},
	{ID: "10_note", Label: "10 - Osservazioni (note)", Type: TypeTextarea},

	{ID: "foto_postazione", Label: "Foto della postazione (URL/nota)", Type: TypeText},
}

// SectionTitles maps the first question of each section to the section title.
var SectionTitles = map[string]string{
	"meta_nome": "INTESTAZIONE",
	"1.1":       "1) ORGANIZZAZIONE DEL LAVORO",
	"2.1":       "2) MICROCLIMA",
	"3.1":       "3) ILLUMINAZIONE",
	"4.1":       "4) RUMORE",
	"5.1":       "5) AMBIENTE DI LAVORO",
	"6.1":       "6) PIANO DI LAVORO",
	"7.1":       "7) SEDILE DI LAVORO",
	"8.1":       "8) SCHERMO",
	"9.1":       "9) TASTIERA E DISPOSITIVI DI INPUT",
	"10.1":      "10) SOFTWARE",
}

// FeedbackQuestions is the short evaluation form whose answers feed the dashboard score.
var FeedbackQuestions = []Question{
	{ID: "q1", Label: "Nome del valutato (lavoratore o reparto)", Type: TypeText},
	{ID: "q2", Label: "Come valuti la qualità del lavoro svolto?", Type: TypeRadio,
		Options: []string{"Eccellente", "Buono", "Sufficiente", "Insufficiente"}},
	{ID: "q3", Label: "Come valuti la puntualità e rispetto delle scadenze?", Type: TypeRadio,
		Options: []string{"Sempre puntuale", "Quasi sempre", "Qualche ritardo", "Spesso in ritardo"}},
	{ID: "q4", Label: "Livello di collaborazione con il team", Type: TypeRadio,
		Options: []string{"Ottimo", "Buono", "Sufficiente", "Scarso"}},
	{ID: "q5", Label: "Punti di forza principali", Type: TypeTextarea},
	{ID: "q6", Label: "Aree di miglioramento", Type: TypeTextarea},
	{ID: "q7", Label: "Valutazione complessiva", Type: TypeRadio,
		Options: []string{"Molto soddisfatto", "Soddisfatto", "Neutrale", "Insoddisfatto"}},
}

var labels = func() map[string]string {
	m := make(map[string]string, len(Questions)+len(FeedbackQuestions))
	for _, q := range FeedbackQuestions {
		m[q.ID] = q.Label
	}
	for _, q := range Questions {
		m[q.ID] = q.Label
	}
	return m
}()

// Label returns the label of a question, or its id when unknown.
func Label(id string) string {
	if l, ok := labels[id]; ok {
		return l
	}
	return id
}

// Sections splits Questions into titled sections.
func Sections() []Section {
	sections := make([]Section, 0, len(SectionTitles))
	for _, q := range Questions {
		if title, ok := SectionTitles[q.ID]; ok || len(sections) == 0 {
			sections = append(sections, Section{Title: title})
		}
		last := &sections[len(sections)-1]
		last.Questions = append(last.Questions, q)
	}
	return sections
}
