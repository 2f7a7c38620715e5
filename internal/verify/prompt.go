package verify

import "fmt"

const matchPromptTemplate = `Analyze this waste collection image and provide a JSON response with the following format ONLY:
{
  "wasteTypeMatch": boolean,
  "quantityMatch": boolean,
  "confidence": number
}

Compare against:
- Waste Type: %[1]s
- Expected Quantity: %[2]s

Rules:
- wasteTypeMatch: true if the waste in the image matches %[1]s
- quantityMatch: true if the amount appears to match %[2]s
- confidence: number between 0 and 1 indicating your confidence level

Return ONLY the JSON object, no additional text or explanation.`

const analysisPrompt = `You are an expert in waste management and recycling. Analyze this image and provide:
1. The types of waste present (plastic, paper, glass, metal, organic, landfill); mention every type if several are present
2. An estimate of the quantity or amount (in kg or liters)
3. Your confidence level in this assessment

Respond in JSON format like this:
{
  "wasteType": "description of waste types present",
  "quantity": "estimated quantity with unit",
  "confidence": confidence level as a number between 0 and 1
}

For wasteType, provide a simple text description, not an object. For example: "Mixed plastic and paper waste" or "Organic waste with some metal containers". Keep details concise and relevant.`

// MatchPrompt builds the instruction asking the classifier to check a claim.
func MatchPrompt(req ClassificationRequest) string {
	return fmt.Sprintf(matchPromptTemplate, req.DeclaredCategory, req.DeclaredQuantity)
}

// AnalysisPrompt returns the instruction asking the classifier to describe an image.
func AnalysisPrompt() string {
	return analysisPrompt
}
