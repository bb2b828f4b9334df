package ai

// ItineraryInput описывает пожелания туриста для генерации маршрута.
type ItineraryInput struct {
	Preferences string
	Duration    int
	Budget      string
	Interests   []string
	Language    string
}

// Itinerary is the structured day-by-day plan. Field names are the
// contract with the frontend, do not rename them.
type Itinerary struct {
	Title       string         `json:"title"`
	Days        []ItineraryDay `json:"days"`
	TotalBudget string         `json:"totalBudget"`
	Tips        []string       `json:"tips"`
}

type ItineraryDay struct {
	Day        int                 `json:"day"`
	Title      string              `json:"title"`
	Activities []ItineraryActivity `json:"activities"`
}

type ItineraryActivity struct {
	Time        string `json:"time"`
	Activity    string `json:"activity"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Cost        string `json:"cost"`
	Tips        string `json:"tips"`
}

// ItineraryResult — исход разбора ответа модели: ровно одно из двух полей.
// Structured == nil означает деградацию до плоского текста.
type ItineraryResult struct {
	Structured *Itinerary
	PlainText  string
}

// IsPlainText сообщает, что структурный разбор не удался.
func (r ItineraryResult) IsPlainText() bool {
	return r.Structured == nil
}

// ChatInput описывает одно обращение к ассистенту вместе с историей диалога.
type ChatInput struct {
	Message  string
	Language string
	History  []Message
}
