package planner

import (
	"fmt"
	"strings"
)

const (
	answersSystemPrompt = `Eres un experto mentor en programación. Respondes SIEMPRE en español con JSON válido sin markdown.`
	messageSystemPrompt = `Eres un experto en planes de carrera. Respondes SIEMPRE en español con JSON válido sin markdown.`
)

const planInstructions = `
INSTRUCCIONES:
Crea un plan estructurado con 4-5 fases progresivas. Cada fase DEBE incluir:

1. id (1, 2, 3...), title motivador, duration_weeks realista y una description
   explicando qué se logrará en la fase.
2. learning_items: MÍNIMO 10 objetivos concretos y accionables, de básico a avanzado.
3. projects: EXACTAMENTE 3 proyectos con difficulty "easy", "medium" y "hard".
   Cada uno con title, description, requirements (5-7 para fácil, 7-9 para medio,
   9-12 para difícil), github_tips y technologies.
4. resources: 3-5 recursos (title, url, type: course | documentation | video | book)
   con URLs realistas (Coursera, Udemy, YouTube, documentación oficial).

Todo en español. Responde únicamente con el objeto JSON del plan
(plan_title, total_weeks, phases).`

func buildAnswersMessage(a Answers) string {
	var b strings.Builder

	b.WriteString("Genera un plan de carrera personalizado DETALLADO.\n\n")
	b.WriteString("Perfil del usuario:\n")
	b.WriteString(fmt.Sprintf("- Nivel actual: %s\n", a.Level))
	b.WriteString(fmt.Sprintf("- Tecnologías de interés: %s\n", strings.Join(a.Interests, ", ")))
	b.WriteString(fmt.Sprintf("- Tiempo disponible diario: %d horas\n", a.HoursPerDay))
	b.WriteString(fmt.Sprintf("- Objetivo principal: %s\n", a.Goal))
	b.WriteString(fmt.Sprintf("- Plazo deseado: %d semanas\n", a.TimelineWeeks))
	b.WriteString(fmt.Sprintf("- Experiencia previa: %s\n", a.PreviousExperience))
	b.WriteString(fmt.Sprintf("- Estilo de aprendizaje preferido: %s\n", a.LearningStyle))
	b.WriteString(planInstructions)

	return b.String()
}

func buildMessagePrompt(message string) string {
	var b strings.Builder

	b.WriteString("El usuario ha dicho lo siguiente sobre lo que quiere estudiar:\n\n")
	b.WriteString(fmt.Sprintf("%q\n\n", message))
	b.WriteString("A partir de este mensaje, genera un plan de carrera personalizado DETALLADO ")
	b.WriteString("con un total de semanas entre 12 y 52.\n")
	b.WriteString(planInstructions)

	return b.String()
}
